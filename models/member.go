package models

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// 会员性别（0男 1女 2未知）
const (
	GenderMale    = "0"
	GenderFemale  = "1"
	GenderUnknown = "2"
)

// Member 会员信息表
type Member struct {
	MemberID    int64                 `gorm:"column:member_id;primaryKey;autoIncrement" json:"member_id"`
	MemberName  string                `gorm:"column:member_name;size:100;index" json:"member_name"`
	NickName    string                `gorm:"column:nick_name;size:30;not null" json:"nick_name"`
	Avatar      string                `gorm:"column:avatar;size:100;default:''" json:"avatar"`
	Password    string                `gorm:"column:password;size:100;default:''" json:"-"`
	Age         int                   `gorm:"column:age" json:"age"`
	Gender      string                `gorm:"column:gender;size:1;default:'0'" json:"gender"`
	Email       string                `gorm:"column:email;size:100" json:"email"`
	Birthday    string                `gorm:"column:birthday;size:100" json:"birthday"`
	Phonenumber string                `gorm:"column:phonenumber;size:11;default:''" json:"phonenumber"`
	Status      string                `gorm:"column:status;size:1;default:'0'" json:"status"`
	DelFlag     soft_delete.DeletedAt `gorm:"column:del_flag;softDelete:flag;default:0" json:"del_flag"`
	LoginIP     string                `gorm:"column:login_ip;size:128;default:''" json:"login_ip"`
	LoginDate   *time.Time            `gorm:"column:login_date" json:"login_date"`
	Remark      string                `gorm:"column:remark;size:500" json:"remark"`
	Audit
}

func (Member) TableName() string {
	return "member"
}

// MemberForm 会员新增/编辑请求，nil 字段表示未提交
type MemberForm struct {
	MemberID    *int64  `json:"member_id"`
	MemberName  *string `json:"member_name"`
	NickName    *string `json:"nick_name"`
	Password    *string `json:"password"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
	Email       *string `json:"email"`
	Birthday    *string `json:"birthday"`
	Phonenumber *string `json:"phonenumber"`
	Status      *string `json:"status"`
	Avatar      *string `json:"avatar"`
	Remark      *string `json:"remark"`

	Type EditType `json:"type"`
}

// ID 未提交 id 时返回 -1
func (f *MemberForm) ID() int64 {
	if f.MemberID == nil {
		return -1
	}
	return *f.MemberID
}

// ToMember 转换为新增记录（不含密码）
func (f *MemberForm) ToMember() *Member {
	m := &Member{Gender: GenderUnknown, Status: StatusNormal}
	if f.MemberName != nil {
		m.MemberName = *f.MemberName
	}
	if f.NickName != nil {
		m.NickName = *f.NickName
	}
	if f.Age != nil {
		m.Age = *f.Age
	}
	if f.Gender != nil && *f.Gender != "" {
		m.Gender = *f.Gender
	}
	if f.Email != nil {
		m.Email = *f.Email
	}
	if f.Birthday != nil {
		m.Birthday = *f.Birthday
	}
	if f.Phonenumber != nil {
		m.Phonenumber = *f.Phonenumber
	}
	if f.Status != nil && *f.Status != "" {
		m.Status = *f.Status
	}
	if f.Avatar != nil {
		m.Avatar = *f.Avatar
	}
	if f.Remark != nil {
		m.Remark = *f.Remark
	}
	return m
}

// Updates 全量编辑时需要写入的字段，密码与头像走各自的编辑类型
func (f *MemberForm) Updates() map[string]any {
	u := map[string]any{}
	if f.MemberName != nil {
		u["member_name"] = *f.MemberName
	}
	if f.NickName != nil {
		u["nick_name"] = *f.NickName
	}
	if f.Age != nil {
		u["age"] = *f.Age
	}
	if f.Gender != nil {
		u["gender"] = *f.Gender
	}
	if f.Email != nil {
		u["email"] = *f.Email
	}
	if f.Birthday != nil {
		u["birthday"] = *f.Birthday
	}
	if f.Phonenumber != nil {
		u["phonenumber"] = *f.Phonenumber
	}
	if f.Status != nil {
		u["status"] = *f.Status
	}
	if f.Remark != nil {
		u["remark"] = *f.Remark
	}
	return u
}

// MemberQuery 会员列表查询
type MemberQuery struct {
	MemberID    *int64 `form:"member_id"`
	MemberName  string `form:"member_name"`
	NickName    string `form:"nick_name"`
	Email       string `form:"email"`
	Phonenumber string `form:"phonenumber"`
	Status      string `form:"status"`
	Gender      string `form:"gender"`
	TimeRange
	PageQuery
}

// ChangeStatusRequest 修改会员状态
type ChangeStatusRequest struct {
	MemberID int64  `json:"member_id" binding:"required"`
	Status   string `json:"status" binding:"required,oneof=0 1"`
}

// ResetPwdRequest 重置会员密码
type ResetPwdRequest struct {
	MemberID int64  `json:"member_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileForm 会员修改个人资料
type ProfileForm struct {
	NickName    *string `json:"nick_name"`
	Email       *string `json:"email"`
	Phonenumber *string `json:"phonenumber"`
	Gender      *string `json:"gender"`
	Birthday    *string `json:"birthday"`
}

// ProfilePwdRequest 会员修改自己的密码
type ProfilePwdRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// AdminLoginRequest 后台管理员登录
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MemberLoginRequest 会员登录
type MemberLoginRequest struct {
	MemberName string `json:"member_name" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginMeta 登录请求的客户端信息
type LoginMeta struct {
	IPAddr    string
	UserAgent string
	VisitName string
}
