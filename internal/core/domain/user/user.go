package user

import (
	"time"
)

// ProfileDTO is a row of the profiles table.
type ProfileDTO struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Email       string    `json:"email" db:"email"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Profile is the public view of a user.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	ImageURL    string `json:"imageUrl"`
}

func FromDTO(d ProfileDTO) Profile {
	return Profile{
		ID:          d.ID,
		DisplayName: d.DisplayName,
		Email:       d.Email,
		ImageURL:    d.ImageURL,
	}
}

// FromDTOs maps profiles without their email addresses; lists are shown to other users.
func FromDTOs(ds []ProfileDTO) []Profile {
	out := make([]Profile, 0, len(ds))
	for _, d := range ds {
		p := FromDTO(d)
		p.Email = ""
		out = append(out, p)
	}
	return out
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}
