package goals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	p := ComputeProgress("2026-01-02", 10000, 2500)
	assert.InDelta(t, 25.0, p.Percent, 0.001)
	assert.False(t, p.Achieved)

	over := ComputeProgress("2026-01-02", 10000, 12000)
	assert.Equal(t, 100.0, over.Percent)
	assert.True(t, over.Achieved)

	none := ComputeProgress("2026-01-02", 0, 500)
	assert.Zero(t, none.Percent)
	assert.False(t, none.Achieved)
}
