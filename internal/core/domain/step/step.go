package step

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for step records.
const DateLayout = "2006-01-02"

// StepsRecordDTO is a row of the steps table.
type StepsRecordDTO struct {
	ID            int64     `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	CompetitionID int64     `json:"competition_id" db:"competition_id"`
	Date          time.Time `json:"date" db:"date"`
	Steps         int64     `json:"steps" db:"steps"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// StepsRecord is the view model of one day's steps.
type StepsRecord struct {
	ID            int64  `json:"id"`
	UserID        string `json:"userId"`
	CompetitionID int64  `json:"competitionId"`
	Date          string `json:"date"`
	Steps         int64  `json:"steps"`
}

func FromDTO(d StepsRecordDTO) StepsRecord {
	return StepsRecord{
		ID:            d.ID,
		UserID:        d.UserID,
		CompetitionID: d.CompetitionID,
		Date:          d.Date.Format(DateLayout),
		Steps:         d.Steps,
	}
}

func FromDTOs(ds []StepsRecordDTO) []StepsRecord {
	out := make([]StepsRecord, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDTO(d))
	}
	return out
}

// TopUserDTO is a row returned by the get_top_users_by_steps function.
type TopUserDTO struct {
	UserID      string `json:"user_id" db:"user_id"`
	DisplayName string `json:"display_name" db:"display_name"`
	ImageURL    string `json:"image_url" db:"image_url"`
	TotalSteps  int64  `json:"total_steps" db:"total_steps"`
}

// TopUser is a leaderboard row.
type TopUser struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	ImageURL    string `json:"imageUrl"`
	TotalSteps  int64  `json:"totalSteps"`
	Rank        int    `json:"rank"`
}

// TopUsersFromDTOs maps leaderboard rows; rank follows row order starting at 1.
func TopUsersFromDTOs(ds []TopUserDTO) []TopUser {
	out := make([]TopUser, 0, len(ds))
	for i, d := range ds {
		name := d.DisplayName
		if name == "" {
			name = "Anonymous"
		}
		out = append(out, TopUser{
			UserID:      d.UserID,
			DisplayName: name,
			ImageURL:    d.ImageURL,
			TotalSteps:  d.TotalSteps,
			Rank:        i + 1,
		})
	}
	return out
}

// AddStepsRequest records the steps walked on one day.
type AddStepsRequest struct {
	Date  string `json:"date"`
	Steps int64  `json:"steps"`
}

// ParseDate parses a YYYY-MM-DD day in UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}
