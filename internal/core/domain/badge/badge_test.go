package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEarned(t *testing.T) {
	catalog := []Badge{
		{ID: 1, Name: "10k", StepThreshold: 10000},
		{ID: 2, Name: "100k", StepThreshold: 100000},
		{ID: 3, Name: "manual", StepThreshold: 0},
		{ID: 4, Name: "50k", StepThreshold: 50000},
	}
	held := []UserBadge{{Badge: Badge{ID: 1}}}

	got := Earned(catalog, held, 60000)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].ID)

	assert.Empty(t, Earned(catalog, held, 500))
}

func TestUserBadgesFromDTOs(t *testing.T) {
	got := UserBadgesFromDTOs([]UserBadgeDTO{{BadgeDTO: BadgeDTO{ID: 9, Name: "Marathon", ImageURL: "m.png"}, UserID: "u1"}})
	assert.Equal(t, []UserBadge{{Badge: Badge{ID: 9, Name: "Marathon", ImageURL: "m.png"}}}, got)
}
