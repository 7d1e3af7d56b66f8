package team

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// TeamDTO is a teams row joined with its member ids.
type TeamDTO struct {
	ID            int64          `json:"id" db:"id"`
	CompetitionID int64          `json:"competition_id" db:"competition_id"`
	Name          string         `json:"name" db:"name"`
	Description   string         `json:"description" db:"description"`
	ImageURL      string         `json:"image_url" db:"image_url"`
	CreatedBy     string         `json:"created_by" db:"created_by"`
	MemberIDs     pq.StringArray `json:"member_ids" db:"member_ids"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// Team is the view model of a team. TotalSteps and AverageSteps are filled by aggregate reads only.
type Team struct {
	ID              int64    `json:"id"`
	CompetitionID   int64    `json:"competitionId"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"imageUrl"`
	CreatedBy       string   `json:"createdBy"`
	MemberIDs       []string `json:"memberIds"`
	NumberOfMembers int      `json:"numberOfMembers"`
	TotalSteps      int64    `json:"totalSteps"`
	AverageSteps    float64  `json:"averageSteps"`
}

// FromDTO maps a team row to its view model without aggregates.
func FromDTO(d TeamDTO) Team {
	members := []string(d.MemberIDs)
	if members == nil {
		members = []string{}
	}
	return Team{
		ID:              d.ID,
		CompetitionID:   d.CompetitionID,
		Name:            d.Name,
		Description:     d.Description,
		ImageURL:        d.ImageURL,
		CreatedBy:       d.CreatedBy,
		MemberIDs:       members,
		NumberOfMembers: len(members),
	}
}

// FromDTOs maps a list of rows, preserving order.
func FromDTOs(ds []TeamDTO) []Team {
	out := make([]Team, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDTO(d))
	}
	return out
}

// WithTotals fills the aggregate fields from a member step total.
func (t Team) WithTotals(total int64) Team {
	t.TotalSteps = total
	if t.NumberOfMembers > 0 {
		t.AverageSteps = float64(total) / float64(t.NumberOfMembers)
	} else {
		t.AverageSteps = 0
	}
	return t
}

// TopTeamDTO is a row returned by the get_top_teams function.
type TopTeamDTO struct {
	TeamID            int64   `json:"team_id" db:"team_id"`
	Name              string  `json:"name" db:"name"`
	ImageURL          string  `json:"image_url" db:"image_url"`
	TotalSteps        int64   `json:"total_steps" db:"total_steps"`
	MemberCount       int     `json:"member_count" db:"member_count"`
	AvgStepsPerMember float64 `json:"avg_steps_per_member" db:"avg_steps_per_member"`
	MemberIDs         string  `json:"member_ids" db:"member_ids"`
}

// TopTeam is a leaderboard row.
type TopTeam struct {
	TeamID            int64    `json:"teamId"`
	Name              string   `json:"name"`
	ImageURL          string   `json:"imageUrl"`
	TotalSteps        int64    `json:"totalSteps"`
	MemberCount       int      `json:"memberCount"`
	AvgStepsPerMember float64  `json:"avgStepsPerMember"`
	MemberIDs         []string `json:"memberIds"`
	Rank              int      `json:"rank"`
}

// TopTeamsFromDTOs maps leaderboard rows; rank follows row order starting at 1.
func TopTeamsFromDTOs(ds []TopTeamDTO) []TopTeam {
	out := make([]TopTeam, 0, len(ds))
	for i, d := range ds {
		out = append(out, TopTeam{
			TeamID:            d.TeamID,
			Name:              d.Name,
			ImageURL:          d.ImageURL,
			TotalSteps:        d.TotalSteps,
			MemberCount:       d.MemberCount,
			AvgStepsPerMember: d.AvgStepsPerMember,
			MemberIDs:         SplitMemberIDs(d.MemberIDs),
			Rank:              i + 1,
		})
	}
	return out
}

// SplitMemberIDs splits the comma-joined member id column, dropping empty parts.
func SplitMemberIDs(joined string) []string {
	ids := []string{}
	for _, p := range strings.Split(joined, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateTeamRequest represents a partial team update
type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
