package competition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusUpcoming, StatusAt(start, end, start.Add(-time.Hour)))
	assert.Equal(t, StatusActive, StatusAt(start, end, start))
	assert.Equal(t, StatusActive, StatusAt(start, end, end.Add(23*time.Hour)))
	assert.Equal(t, StatusFinished, StatusAt(start, end, end.Add(24*time.Hour)))
}

func TestFromDTO_HidesInviteKey(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	c := FromDTO(CompetitionDTO{ID: 3, Name: "March", StartDate: now.AddDate(0, 0, -9), EndDate: now.AddDate(0, 0, 20), InviteKeyHash: "$2a$..."}, now)

	assert.Equal(t, int64(3), c.ID)
	assert.True(t, c.InviteOnly)
	assert.Equal(t, StatusActive, c.Status)
}
