package model

import (
	"time"
)

// BaseModel 章节/尝试需要真实删除（级联 + 唯一索引），因此不带软删除字段
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
