package billingperiod

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	start, end, err := Resolve("2024-07")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveLeapFebruary(t *testing.T) {
	start, end, err := Resolve("2024-02")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 29, int(end.Sub(start).Hours()/24))
}

func TestResolveDecemberRollsOver(t *testing.T) {
	start, end, err := Resolve("2024-12")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestResolveInvalid(t *testing.T) {
	for _, period := range []string{
		"",
		"2024",
		"2024-13",
		"2024-00",
		"2024-7",
		"2024/01",
		"07-2024",
		"2024-07-01",
		"garbage",
	} {
		_, _, err := Resolve(period)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "period %q", period)
	}
}
