package competition

import (
	"time"
)

// CompetitionDTO is a row of the competitions table.
type CompetitionDTO struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	EndDate       time.Time `json:"end_date" db:"end_date"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	InviteKeyHash string    `json:"-" db:"invite_key_hash"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Competition is the view model handed to clients. The invite key hash never leaves the backend.
type Competition struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsActive    bool      `json:"isActive"`
	InviteOnly  bool      `json:"inviteOnly"`
	Status      Status    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
}

// StatusAt derives the lifecycle status of a competition at now. End date is inclusive.
func StatusAt(start, end, now time.Time) Status {
	if now.Before(start) {
		return StatusUpcoming
	}
	if now.After(end.Add(24*time.Hour - time.Nanosecond)) {
		return StatusFinished
	}
	return StatusActive
}

// FromDTO maps a competitions row to its view model.
func FromDTO(d CompetitionDTO, now time.Time) Competition {
	return Competition{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		IsActive:    d.IsActive,
		InviteOnly:  d.InviteKeyHash != "",
		Status:      StatusAt(d.StartDate, d.EndDate, now),
		CreatedBy:   d.CreatedBy,
	}
}

// FromDTOs maps a list of rows, preserving order.
func FromDTOs(ds []CompetitionDTO, now time.Time) []Competition {
	out := make([]Competition, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDTO(d, now))
	}
	return out
}

// CreateCompetitionRequest represents the request to create a competition
type CreateCompetitionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	InviteKey   string    `json:"inviteKey,omitempty"`
}

// UpdateCompetitionRequest represents a partial update of a competition
type UpdateCompetitionRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
}

// JoinCompetitionRequest carries the invite key for invite-only competitions.
type JoinCompetitionRequest struct {
	InviteKey string `json:"inviteKey,omitempty"`
}
