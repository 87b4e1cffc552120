package service

import "fmt"

const (
	PolicyCompletion   = "completion"
	PolicyTimeWeighted = "time_weighted"
)

// 最终章先解者奖励
const (
	FirstSolverBonus  = 500
	SecondSolverBonus = 200
	LaterSolverBonus  = 100
)

// ScoringPolicy 把一次结算的尝试换算成章节分
type ScoringPolicy interface {
	Name() string
	Score(timeTaken, timeLimit int, completed bool) float64
}

// CompletionPolicy 完成得 100 分，否则 0 分
type CompletionPolicy struct{}

func (CompletionPolicy) Name() string { return PolicyCompletion }

func (CompletionPolicy) Score(_, _ int, completed bool) float64 {
	if !completed {
		return 0
	}
	return 100
}

// TimeWeightedPolicy 完成分 70 + 速度分最多 30。
// timeLimit <= 0 时只给完成分。
type TimeWeightedPolicy struct{}

func (TimeWeightedPolicy) Name() string { return PolicyTimeWeighted }

func (TimeWeightedPolicy) Score(timeTaken, timeLimit int, completed bool) float64 {
	if !completed {
		return 0
	}
	const completion = 70.0
	if timeLimit <= 0 {
		return completion
	}
	ratio := float64(timeTaken) / float64(timeLimit)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return completion + 30*(1-ratio)
}

func NewScoringPolicy(name string) (ScoringPolicy, error) {
	switch name {
	case PolicyCompletion, "":
		return CompletionPolicy{}, nil
	case PolicyTimeWeighted:
		return TimeWeightedPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// SolverBonus prior 为其他用户此前的完成次数
func SolverBonus(prior int64) int {
	switch {
	case prior <= 0:
		return FirstSolverBonus
	case prior == 1:
		return SecondSolverBonus
	default:
		return LaterSolverBonus
	}
}

// ScoreBreakdown 提交结果
type ScoreBreakdown struct {
	Completed     bool    `json:"completed"`
	TimeTaken     int     `json:"timeTaken"`
	ChapterPoints float64 `json:"chapterPoints"`
	BonusPoints   int     `json:"bonusPoints"`
	TotalPoints   float64 `json:"totalPoints"`
	Policy        string  `json:"policy"`
	Revealed      bool    `json:"revealed"`
}
