package cronwait

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilScheduleWaitReturnsImmediately(t *testing.T) {
	var s *Schedule
	start := time.Now()
	err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestParseAndNextFindsMatchWithinNinetySeconds(t *testing.T) {
	s, err := Parse("* * * * *")
	require.NoError(t, err)

	now := time.Date(2026, 7, 31, 10, 0, 30, 0, time.UTC)
	next := s.Next(now)
	assert.True(t, next.After(now))
	assert.LessOrEqual(t, next.Sub(now), 90*time.Second)
}

func TestParseRejectsInvalidExpression(t *testing.T) {
	_, err := Parse("not a cron expression")
	assert.Error(t, err)
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	s, err := Parse("0 0 1 1 *") // once a year: far enough to never fire in this test
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
