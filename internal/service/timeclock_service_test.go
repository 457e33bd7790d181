package service

import (
	"testing"
	"time"

	"gruas-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyClockEventFullDay(t *testing.T) {
	entry := &model.TimeEntry{Status: model.TimeEntryOpen}
	base := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)

	require.NoError(t, applyClockEvent(entry, ClockEventIn, base))
	require.NoError(t, applyClockEvent(entry, ClockEventLunchOut, base.Add(5*time.Hour)))
	require.NoError(t, applyClockEvent(entry, ClockEventLunchIn, base.Add(6*time.Hour)))
	require.NoError(t, applyClockEvent(entry, ClockEventOut, base.Add(10*time.Hour)))

	assert.Equal(t, model.TimeEntryClosed, entry.Status)
	// 10h span minus 1h lunch
	assert.Equal(t, 9.0, workedHours(*entry).Hours())
}

func TestApplyClockEventOrder(t *testing.T) {
	now := time.Now()

	t.Run("lunch_out before clock_in", func(t *testing.T) {
		entry := &model.TimeEntry{Status: model.TimeEntryOpen}
		assert.ErrorIs(t, applyClockEvent(entry, ClockEventLunchOut, now), ErrInvalidTransition)
	})

	t.Run("lunch_in before lunch_out", func(t *testing.T) {
		entry := &model.TimeEntry{Status: model.TimeEntryOpen, ClockIn: &now}
		assert.ErrorIs(t, applyClockEvent(entry, ClockEventLunchIn, now), ErrInvalidTransition)
	})

	t.Run("double clock_in", func(t *testing.T) {
		entry := &model.TimeEntry{Status: model.TimeEntryOpen, ClockIn: &now}
		assert.ErrorIs(t, applyClockEvent(entry, ClockEventIn, now), ErrInvalidTransition)
	})

	t.Run("clock_out during lunch", func(t *testing.T) {
		entry := &model.TimeEntry{Status: model.TimeEntryOpen, ClockIn: &now, LunchOut: &now}
		assert.ErrorIs(t, applyClockEvent(entry, ClockEventOut, now), ErrInvalidTransition)
	})

	t.Run("event after clock_out", func(t *testing.T) {
		entry := &model.TimeEntry{Status: model.TimeEntryClosed, ClockIn: &now, ClockOut: &now}
		assert.ErrorIs(t, applyClockEvent(entry, ClockEventIn, now), ErrInvalidTransition)
	})

	t.Run("approved entry is frozen", func(t *testing.T) {
		entry := &model.TimeEntry{Status: model.TimeEntryApproved, ClockIn: &now}
		assert.ErrorIs(t, applyClockEvent(entry, ClockEventLunchOut, now), ErrInvalidTransition)
	})
}

func TestWorkedHoursIncompleteDay(t *testing.T) {
	now := time.Now()

	assert.Equal(t, time.Duration(0), workedHours(model.TimeEntry{}))
	assert.Equal(t, time.Duration(0), workedHours(model.TimeEntry{ClockIn: &now}))
}
