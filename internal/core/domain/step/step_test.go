package step

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDTO_FormatsDate(t *testing.T) {
	r := FromDTO(StepsRecordDTO{ID: 1, UserID: "u1", CompetitionID: 2, Date: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), Steps: 8000})
	assert.Equal(t, "2026-05-04", r.Date)
	assert.Equal(t, int64(8000), r.Steps)
}

func TestTopUsersFromDTOs(t *testing.T) {
	out := TopUsersFromDTOs([]TopUserDTO{{UserID: "a", DisplayName: "Ann", TotalSteps: 10}, {UserID: "b", TotalSteps: 5}})
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "Anonymous", out[1].DisplayName)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, 28, d.Day())

	_, err = ParseDate("28/02/2026")
	assert.Error(t, err)
}
