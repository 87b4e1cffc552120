package model

import "strings"

// swagger:model User
type User struct {
	BaseModel
	Name     string    `gorm:"size:120;not null" json:"name"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Attempts []Attempt `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail 邮箱统一去空格并转小写后再存储/查询
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
