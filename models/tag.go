package models

// Tag 分类标签信息表
type Tag struct {
	TagsID   int64  `gorm:"column:tags_id;primaryKey;autoIncrement" json:"tags_id"`
	TagsCode string `gorm:"column:tags_code;size:64;not null" json:"tags_code"`
	TagsName string `gorm:"column:tags_name;size:50;not null" json:"tags_name"`
	TagsSort int    `gorm:"column:tags_sort;not null" json:"tags_sort"`
	Avatar   string `gorm:"column:avatar;size:255;default:''" json:"avatar"`
	Position string `gorm:"column:position;size:30;default:''" json:"position"`
	Status   string `gorm:"column:status;size:1;not null;default:'0'" json:"status"`
	Remark   string `gorm:"column:remark;size:500" json:"remark"`
	Audit
}

func (Tag) TableName() string {
	return "tags"
}

// TagForm 标签新增/编辑请求
type TagForm struct {
	TagsID   *int64  `json:"tags_id"`
	TagsCode *string `json:"tags_code"`
	TagsName *string `json:"tags_name"`
	TagsSort *int    `json:"tags_sort"`
	Position *string `json:"position"`
	Status   *string `json:"status"`
	Remark   *string `json:"remark"`
}

func (f *TagForm) ID() int64 {
	if f.TagsID == nil {
		return -1
	}
	return *f.TagsID
}

func (f *TagForm) ToTag() *Tag {
	t := &Tag{Status: StatusNormal}
	if f.TagsCode != nil {
		t.TagsCode = *f.TagsCode
	}
	if f.TagsName != nil {
		t.TagsName = *f.TagsName
	}
	if f.TagsSort != nil {
		t.TagsSort = *f.TagsSort
	}
	if f.Position != nil {
		t.Position = *f.Position
	}
	if f.Status != nil && *f.Status != "" {
		t.Status = *f.Status
	}
	if f.Remark != nil {
		t.Remark = *f.Remark
	}
	return t
}

func (f *TagForm) Updates() map[string]any {
	u := map[string]any{}
	if f.TagsCode != nil {
		u["tags_code"] = *f.TagsCode
	}
	if f.TagsName != nil {
		u["tags_name"] = *f.TagsName
	}
	if f.TagsSort != nil {
		u["tags_sort"] = *f.TagsSort
	}
	if f.Position != nil {
		u["position"] = *f.Position
	}
	if f.Status != nil {
		u["status"] = *f.Status
	}
	if f.Remark != nil {
		u["remark"] = *f.Remark
	}
	return u
}

// TagQuery 标签列表查询
type TagQuery struct {
	TagsCode string `form:"tags_code"`
	TagsName string `form:"tags_name"`
	Position string `form:"position"`
	Status   string `form:"status"`
	TimeRange
	PageQuery
}
