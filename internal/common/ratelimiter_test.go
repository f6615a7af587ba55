package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRestrictionAnalyse(t *testing.T) {

	restriction := Restriction{Requests: 2, Duration: time.Minute}

	t.Run("under the limit", func(t *testing.T) {
		history := []time.Time{time.Now().Add(-time.Second)}
		assert.True(t, restriction.Analyse(history).Allowed)
	})

	t.Run("at the limit", func(t *testing.T) {
		now := time.Now()
		history := []time.Time{now.Add(-2 * time.Second), now.Add(-time.Second)}
		analysis := restriction.Analyse(history)
		assert.False(t, analysis.Allowed)
		assert.Greater(t, analysis.Wait, time.Duration(0))
	})

	t.Run("old requests do not count", func(t *testing.T) {
		now := time.Now()
		history := []time.Time{now.Add(-2 * time.Minute), now.Add(-90 * time.Second)}
		assert.True(t, restriction.Analyse(history).Allowed)
	})
}

func TestRateLimiterRejectsNonVitalWhenSaturated(t *testing.T) {

	rl := NewRateLimiter([]Restriction{{Requests: 2, Duration: time.Minute}})

	assert.True(t, rl.Allowed(false))
	assert.True(t, rl.Allowed(false))
	assert.False(t, rl.Allowed(false))
}

func TestRateLimiterWithoutRestrictionsAllowsEverything(t *testing.T) {

	rl := NewRateLimiter(nil)
	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allowed(i%2 == 0))
	}
}

func TestStopwatch(t *testing.T) {

	s := NewStopwatch(time.Hour)
	stopped, _ := s.Stopped()
	assert.True(t, stopped, "a stopwatch that was never started counts as stopped")

	s.Start()
	stopped, _ = s.Stopped()
	assert.False(t, stopped)

	s.Timeout = 0
	stopped, _ = s.Stopped()
	assert.True(t, stopped)
}

func TestTimedExecutor(t *testing.T) {

	count := 0
	executor := NewTimedExecutor(time.Hour, func() { count++ })
	executor.Execute()
	assert.Equal(t, 0, count, "timeout not reached yet")

	executor = NewTimedExecutor(0, func() { count++ })
	time.Sleep(time.Millisecond)
	executor.Execute()
	executor.Execute()
	assert.Equal(t, 2, count)
}
