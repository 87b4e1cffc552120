package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Content 即“章节”。ChapterNumber 不做唯一约束，按编号查找时取 id 最小的一条。
// swagger:model Content
type Content struct {
	BaseModel
	Title         string         `gorm:"size:255;not null" json:"title"`
	ChapterNumber int            `gorm:"index;default:1;not null" json:"chapterNumber"`
	TimeLimit     int            `gorm:"default:0;not null" json:"timeLimit"` // 秒，0 表示不限时
	IsUnlocked    bool           `gorm:"default:false;not null" json:"isUnlocked"`
	UnlockTime    *time.Time     `json:"unlockTime,omitempty"`
	Panels        datatypes.JSON `gorm:"column:panels_json" json:"-"`
	Attempts      []Attempt      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Content) TableName() string {
	return "contents"
}

// UnlockedAt 管理员开放且已过定时解锁时间
func (c *Content) UnlockedAt(now time.Time) bool {
	if !c.IsUnlocked {
		return false
	}
	if c.UnlockTime == nil {
		return true
	}
	return !now.Before(*c.UnlockTime)
}

type panelDocument struct {
	Panels []string `json:"panels"`
}

// PanelList 解析存储的面板列表，数据损坏时返回空列表
func (c *Content) PanelList() []string {
	if len(c.Panels) == 0 {
		return []string{}
	}
	var doc panelDocument
	if err := json.Unmarshal(c.Panels, &doc); err != nil || doc.Panels == nil {
		return []string{}
	}
	return doc.Panels
}

func EncodePanels(urls []string) datatypes.JSON {
	if len(urls) == 0 {
		return nil
	}
	b, _ := json.Marshal(panelDocument{Panels: urls})
	return datatypes.JSON(b)
}
