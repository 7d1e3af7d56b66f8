package badge

import "time"

// BadgeDTO is a row of the badges catalog.
type BadgeDTO struct {
	ID            int64  `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Description   string `json:"description" db:"description"`
	ImageURL      string `json:"image_url" db:"image_url"`
	StepThreshold int64  `json:"step_threshold" db:"step_threshold"`
}

// UserBadgeDTO is a badge joined with the time it was awarded to a user.
type UserBadgeDTO struct {
	BadgeDTO
	UserID        string    `json:"user_id" db:"user_id"`
	CompetitionID int64     `json:"competition_id" db:"competition_id"`
	AwardedAt     time.Time `json:"awarded_at" db:"awarded_at"`
}

type Badge struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
	StepThreshold int64  `json:"stepThreshold"`
}

type UserBadge struct {
	Badge
	AwardedAt time.Time `json:"awardedAt"`
}

func FromDTO(d BadgeDTO) Badge {
	return Badge{ID: d.ID, Name: d.Name, Description: d.Description, ImageURL: d.ImageURL, StepThreshold: d.StepThreshold}
}

func FromDTOs(ds []BadgeDTO) []Badge {
	out := make([]Badge, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDTO(d))
	}
	return out
}

func UserBadgesFromDTOs(ds []UserBadgeDTO) []UserBadge {
	out := make([]UserBadge, 0, len(ds))
	for _, d := range ds {
		out = append(out, UserBadge{Badge: FromDTO(d.BadgeDTO), AwardedAt: d.AwardedAt})
	}
	return out
}

// Earned returns the catalog badges whose threshold total reaches and that are not in held.
func Earned(catalog []Badge, held []UserBadge, total int64) []Badge {
	have := make(map[int64]struct{}, len(held))
	for _, h := range held {
		have[h.ID] = struct{}{}
	}
	var out []Badge
	for _, b := range catalog {
		if _, ok := have[b.ID]; ok {
			continue
		}
		if b.StepThreshold > 0 && total >= b.StepThreshold {
			out = append(out, b)
		}
	}
	return out
}
