package model

// Profile 个人档案 — 对应 profiles，每个用户至多一条
type Profile struct {
	UserID             string  `gorm:"type:uuid;primaryKey"          json:"user_id"`
	Bio                string  `gorm:"type:text;not null;default:''" json:"bio"`
	Avatar             string  `gorm:"type:varchar(500);not null;default:''" json:"avatar"`
	TotalLearningHours float64 `gorm:"not null;default:0"            json:"total_learning_hours"`
	Skills             TagSet  `gorm:"type:text;not null;default:''" json:"skills"`
	BaseModel
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// MergeSkills 合并技能（并集，只增不减）
func (p *Profile) MergeSkills(tags TagSet) {
	p.Skills = p.Skills.Union(tags)
}

// AddHours 累加学时；负数忽略以保证单调不减
func (p *Profile) AddHours(hours float64) {
	if hours > 0 {
		p.TotalLearningHours += hours
	}
}
