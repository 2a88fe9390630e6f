package models

import "gorm.io/plugin/soft_delete"

// Scale 量表信息表，本服务只用于标签引用关系
type Scale struct {
	ScalesID   int64                 `gorm:"column:scales_id;primaryKey;autoIncrement" json:"scales_id"`
	Title      string                `gorm:"column:title;size:64;not null" json:"title"`
	Snippet    string                `gorm:"column:snippet;size:255" json:"snippet"`
	Descrition string                `gorm:"column:descrition;type:text" json:"descrition"`
	ScalesSort int                   `gorm:"column:scales_sort" json:"scales_sort"`
	Avatar     string                `gorm:"column:avatar;size:255;default:''" json:"avatar"`
	Visit      int                   `gorm:"column:visit;default:0" json:"visit"`
	Status     string                `gorm:"column:status;size:1;default:'0'" json:"status"`
	DelFlag    soft_delete.DeletedAt `gorm:"column:del_flag;softDelete:flag;default:0" json:"del_flag"`
	Audit
}

func (Scale) TableName() string {
	return "scales"
}

// ScaleTag 量表与标签关联表
type ScaleTag struct {
	ScalesID int64 `gorm:"column:scales_id;primaryKey" json:"scales_id"`
	TagsID   int64 `gorm:"column:tags_id;primaryKey;index" json:"tags_id"`
}

func (ScaleTag) TableName() string {
	return "scales_tags"
}
