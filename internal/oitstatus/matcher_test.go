package oitstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_DefaultStatusBeforeAnyMatch(t *testing.T) {
	m := New(Config{Default: "starting", DefaultColor: "yellow"})
	label, color := m.GetDisplayStatus()
	assert.Equal(t, "starting", label)
	assert.Equal(t, "yellow", color)
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	m := New(Config{
		Default: "starting",
		Transitions: []Transition{
			{Pattern: `(?i)ready`, Label: "healthy", Color: "green"},
			{Pattern: `(?i)error`, Label: "unhealthy", Color: "red"},
		},
	})
	matched := m.CheckLine("server ready to accept connections")
	assert.True(t, matched)
	label, color := m.GetDisplayStatus()
	assert.Equal(t, "healthy", label)
	assert.Equal(t, "green", color)
}

func TestMatcher_LaterTransitionOverridesEarlier(t *testing.T) {
	m := New(Config{
		Default: "starting",
		Transitions: []Transition{
			{Pattern: `(?i)ready`, Label: "healthy", Color: "green"},
			{Pattern: `(?i)error`, Label: "unhealthy", Color: "red"},
		},
	})
	m.CheckLine("server ready")
	m.CheckLine("fatal error occurred")
	label, _ := m.GetDisplayStatus()
	assert.Equal(t, "unhealthy", label)
}

func TestMatcher_NoMatchKeepsCurrentStatus(t *testing.T) {
	m := New(Config{
		Default: "starting",
		Transitions: []Transition{
			{Pattern: `(?i)ready`, Label: "healthy", Color: "green"},
		},
	})
	m.CheckLine("server ready")
	matched := m.CheckLine("some unrelated log line")
	assert.False(t, matched)
	label, _ := m.GetDisplayStatus()
	assert.Equal(t, "healthy", label)
}

func TestMatcher_ResetReturnsToDefault(t *testing.T) {
	m := New(Config{Default: "starting", DefaultColor: "yellow", Transitions: []Transition{
		{Pattern: `(?i)ready`, Label: "healthy", Color: "green"},
	}})
	m.CheckLine("ready")
	m.Reset()
	label, color := m.GetDisplayStatus()
	assert.Equal(t, "starting", label)
	assert.Equal(t, "yellow", color)
}

func TestMatcher_InvalidRegexSkippedNotFatal(t *testing.T) {
	m := New(Config{
		Default: "starting",
		Transitions: []Transition{
			{Pattern: "(unclosed", Label: "broken", Color: "red"},
			{Pattern: `(?i)ready`, Label: "healthy", Color: "green"},
		},
	})
	matched := m.CheckLine("ready")
	assert.True(t, matched)
	label, _ := m.GetDisplayStatus()
	assert.Equal(t, "healthy", label)
}
