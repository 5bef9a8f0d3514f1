package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 角色
const (
	RoleEmployee   = "EMPLOYEE"
	RoleManager    = "MANAGER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// IsValidRole 角色合法性
func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdminRole ADMIN 与 SUPER_ADMIN 均具备管理权限
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                         json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                   json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"       json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null;default:''"        json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'EMPLOYEE'" json:"role"`
	Department   string `gorm:"type:varchar(100);not null;default:''"        json:"department"`
	IsActive     bool   `gorm:"not null;default:true"                        json:"is_active"`
	BaseModel

	// 关联
	Profile *Profile `gorm:"foreignKey:UserID;references:UserID" json:"profile,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 主键为空时生成 UUID
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.New().String()
	}
	return nil
}

// HasPassword 是否设置过登录密码
func (u *User) HasPassword() bool { return u.PasswordHash != "" }
