package model

import "time"

type AttemptState string

const (
	AttemptNone       AttemptState = "none"
	AttemptInProgress AttemptState = "in_progress"
	AttemptFinalized  AttemptState = "finalized"
)

// Attempt 一个用户对一个章节的唯一一次挑战记录。
// EndTime 非空即视为已结算，只允许写入一次。
// swagger:model Attempt
type Attempt struct {
	BaseModel
	UserID      uint       `gorm:"not null;uniqueIndex:unique_user_content_attempt" json:"userId"`
	ContentID   uint       `gorm:"not null;uniqueIndex:unique_user_content_attempt;index" json:"contentId"`
	StartTime   time.Time  `gorm:"not null" json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	TimeTaken   *int       `json:"timeTaken,omitempty"` // 秒
	Completed   bool       `gorm:"default:false;not null" json:"completed"`
	Score       *float64   `json:"score,omitempty"`
	BonusPoints int        `gorm:"default:0;not null" json:"bonusPoints"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) State() AttemptState {
	if a == nil || a.ID == 0 {
		return AttemptNone
	}
	if a.EndTime != nil {
		return AttemptFinalized
	}
	return AttemptInProgress
}

// AttemptRecord 管理后台的尝试列表行（关联用户与章节）
type AttemptRecord struct {
	AttemptID     uint       `json:"attemptId"`
	UserName      string     `json:"userName"`
	UserEmail     string     `json:"userEmail"`
	ContentTitle  string     `json:"contentTitle"`
	ChapterNumber int        `json:"chapterNumber"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	TimeTaken     *int       `json:"timeTaken,omitempty"`
	Completed     bool       `json:"completed"`
	Score         *float64   `json:"score,omitempty"`
}
