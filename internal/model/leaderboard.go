package model

// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	UserID     uint    `json:"userId"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	TotalScore float64 `json:"totalScore"`
}
