package goals

import "time"

// GoalDTO is a row of the goals table.
type GoalDTO struct {
	UserID        string    `json:"user_id" db:"user_id"`
	CompetitionID int64     `json:"competition_id" db:"competition_id"`
	DailyTarget   int64     `json:"daily_target" db:"daily_target"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type Goal struct {
	UserID        string `json:"userId"`
	CompetitionID int64  `json:"competitionId"`
	DailyTarget   int64  `json:"dailyTarget"`
}

func FromDTO(d GoalDTO) Goal {
	return Goal{UserID: d.UserID, CompetitionID: d.CompetitionID, DailyTarget: d.DailyTarget}
}

// Progress describes how far a user is toward the daily target on one date.
type Progress struct {
	Date        string  `json:"date"`
	DailyTarget int64   `json:"dailyTarget"`
	Steps       int64   `json:"steps"`
	Percent     float64 `json:"percent"`
	Achieved    bool    `json:"achieved"`
}

// ComputeProgress caps Percent at 100.
func ComputeProgress(date string, target, steps int64) Progress {
	p := Progress{Date: date, DailyTarget: target, Steps: steps}
	if target > 0 {
		p.Percent = float64(steps) * 100 / float64(target)
		if p.Percent > 100 {
			p.Percent = 100
		}
		p.Achieved = steps >= target
	}
	return p
}

// SetGoalRequest sets the daily step target.
type SetGoalRequest struct {
	DailyTarget int64 `json:"dailyTarget"`
}
