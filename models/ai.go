package models

// 当前标记（0非当前 1当前）
const (
	CurrentNo  = "0"
	CurrentYes = "1"
)

// ModelType 模型分类信息表
type ModelType struct {
	TypeID   int64  `gorm:"column:type_id;primaryKey;autoIncrement" json:"type_id"`
	TypeName string `gorm:"column:type_name;size:64;not null" json:"type_name"`
	APIURL   string `gorm:"column:api_url;size:255;not null" json:"api_url"`
	Status   string `gorm:"column:status;size:1;not null;default:'0'" json:"status"`
	Remark   string `gorm:"column:remark;size:500" json:"remark"`
	Audit
}

func (ModelType) TableName() string {
	return "ai_model_type"
}

type ModelTypeForm struct {
	TypeID   *int64  `json:"type_id"`
	TypeName *string `json:"type_name"`
	APIURL   *string `json:"api_url"`
	Status   *string `json:"status"`
	Remark   *string `json:"remark"`
}

func (f *ModelTypeForm) ID() int64 {
	if f.TypeID == nil {
		return -1
	}
	return *f.TypeID
}

func (f *ModelTypeForm) ToModelType() *ModelType {
	t := &ModelType{Status: StatusNormal}
	if f.TypeName != nil {
		t.TypeName = *f.TypeName
	}
	if f.APIURL != nil {
		t.APIURL = *f.APIURL
	}
	if f.Status != nil && *f.Status != "" {
		t.Status = *f.Status
	}
	if f.Remark != nil {
		t.Remark = *f.Remark
	}
	return t
}

func (f *ModelTypeForm) Updates() map[string]any {
	u := map[string]any{}
	if f.TypeName != nil {
		u["type_name"] = *f.TypeName
	}
	if f.APIURL != nil {
		u["api_url"] = *f.APIURL
	}
	if f.Status != nil {
		u["status"] = *f.Status
	}
	if f.Remark != nil {
		u["remark"] = *f.Remark
	}
	return u
}

type ModelTypeQuery struct {
	TypeName string `form:"type_name"`
	Status   string `form:"status"`
	TimeRange
	PageQuery
}

// AiModel 模型信息表
type AiModel struct {
	ModelID     int64   `gorm:"column:model_id;primaryKey;autoIncrement" json:"model_id"`
	ModelName   string  `gorm:"column:model_name;size:64;not null" json:"model_name"`
	ModelAlias  string  `gorm:"column:model_alias;size:64;not null" json:"model_alias"`
	TypeID      int64   `gorm:"column:type_id;not null;index" json:"type_id"`
	Status      string  `gorm:"column:status;size:1;not null;default:'0'" json:"status"`
	Current     string  `gorm:"column:current;size:1;not null;default:'0'" json:"current"`
	ContextNum  int     `gorm:"column:context_num;not null;default:0" json:"context_num"`
	Maxtoken    int     `gorm:"column:maxtoken;not null;default:0" json:"maxtoken"`
	Temperature float64 `gorm:"column:temperature;not null;default:0" json:"temperature"`
	Frequency   float64 `gorm:"column:frequency;not null;default:0" json:"frequency"`
	Presence    float64 `gorm:"column:presence;not null;default:0" json:"presence"`
	Remark      string  `gorm:"column:remark;size:500" json:"remark"`
	Audit
}

func (AiModel) TableName() string {
	return "ai_model"
}

type AiModelForm struct {
	ModelID     *int64   `json:"model_id"`
	ModelName   *string  `json:"model_name"`
	ModelAlias  *string  `json:"model_alias"`
	TypeID      *int64   `json:"type_id"`
	Status      *string  `json:"status"`
	Current     *string  `json:"current"`
	ContextNum  *int     `json:"context_num"`
	Maxtoken    *int     `json:"maxtoken"`
	Temperature *float64 `json:"temperature"`
	Frequency   *float64 `json:"frequency"`
	Presence    *float64 `json:"presence"`
	Remark      *string  `json:"remark"`
}

func (f *AiModelForm) ID() int64 {
	if f.ModelID == nil {
		return -1
	}
	return *f.ModelID
}

func (f *AiModelForm) ToAiModel() *AiModel {
	m := &AiModel{Status: StatusNormal, Current: CurrentNo}
	if f.ModelName != nil {
		m.ModelName = *f.ModelName
	}
	if f.ModelAlias != nil {
		m.ModelAlias = *f.ModelAlias
	}
	if f.TypeID != nil {
		m.TypeID = *f.TypeID
	}
	if f.Status != nil && *f.Status != "" {
		m.Status = *f.Status
	}
	if f.Current != nil && *f.Current != "" {
		m.Current = *f.Current
	}
	if f.ContextNum != nil {
		m.ContextNum = *f.ContextNum
	}
	if f.Maxtoken != nil {
		m.Maxtoken = *f.Maxtoken
	}
	if f.Temperature != nil {
		m.Temperature = *f.Temperature
	}
	if f.Frequency != nil {
		m.Frequency = *f.Frequency
	}
	if f.Presence != nil {
		m.Presence = *f.Presence
	}
	if f.Remark != nil {
		m.Remark = *f.Remark
	}
	return m
}

func (f *AiModelForm) Updates() map[string]any {
	u := map[string]any{}
	if f.ModelName != nil {
		u["model_name"] = *f.ModelName
	}
	if f.ModelAlias != nil {
		u["model_alias"] = *f.ModelAlias
	}
	if f.TypeID != nil {
		u["type_id"] = *f.TypeID
	}
	if f.Status != nil {
		u["status"] = *f.Status
	}
	if f.Current != nil {
		u["current"] = *f.Current
	}
	if f.ContextNum != nil {
		u["context_num"] = *f.ContextNum
	}
	if f.Maxtoken != nil {
		u["maxtoken"] = *f.Maxtoken
	}
	if f.Temperature != nil {
		u["temperature"] = *f.Temperature
	}
	if f.Frequency != nil {
		u["frequency"] = *f.Frequency
	}
	if f.Presence != nil {
		u["presence"] = *f.Presence
	}
	if f.Remark != nil {
		u["remark"] = *f.Remark
	}
	return u
}

type AiModelQuery struct {
	ModelName  string `form:"model_name"`
	ModelAlias string `form:"model_alias"`
	TypeID     *int64 `form:"type_id"`
	Status     string `form:"status"`
	Current    string `form:"current"`
	TimeRange
	PageQuery
}
