package oitgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testGroups() map[string][]string {
	return map[string][]string{
		"rails":    {"puma", "workers"},
		"frontend": {"webpack"},
	}
}

func testProcessNames() []string {
	return []string{"puma", "workers", "webpack", "redis"}
}

func TestResolve_GroupName(t *testing.T) {
	r := New(testGroups(), testProcessNames())
	assert.Equal(t, []string{"puma", "workers"}, r.Resolve("rails"))
}

func TestResolve_All(t *testing.T) {
	r := New(testGroups(), testProcessNames())
	assert.Equal(t, []string{"puma", "workers", "webpack", "redis"}, r.Resolve("all"))
}

func TestResolve_SingleProcessName(t *testing.T) {
	r := New(testGroups(), testProcessNames())
	assert.Equal(t, []string{"puma"}, r.Resolve("puma"))
}

func TestResolve_UnknownNameReturnsItself(t *testing.T) {
	r := New(testGroups(), testProcessNames())
	assert.Equal(t, []string{"unknown"}, r.Resolve("unknown"))
}

func TestIsGroup(t *testing.T) {
	r := New(testGroups(), testProcessNames())
	assert.True(t, r.IsGroup("rails"))
	assert.True(t, r.IsGroup("frontend"))
	assert.False(t, r.IsGroup("puma"))
	assert.False(t, r.IsGroup("all"))
	assert.False(t, r.IsGroup("unknown"))
}
