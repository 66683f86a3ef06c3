package oitfilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/overitall/overitall/internal/logrecord"
)

func rec(proc, content string) logrecord.LogRecord {
	return logrecord.New(logrecord.Source{Kind: logrecord.SourceProcessStdout, Name: proc}, content)
}

func TestApply_ExcludeWinsOverInclude(t *testing.T) {
	records := []logrecord.LogRecord{
		rec("web", "GET /healthz 200"),
		rec("web", "GET /users 500 error"),
	}
	out := Apply(records, Input{
		Filters: []Filter{
			{Pattern: "GET", Kind: Include},
			{Pattern: "error", Kind: Exclude},
		},
	})
	assert := assert.New(t)
	assert.Len(out, 1)
	assert.Equal("GET /healthz 200", out[0].Content)
}

func TestApply_IncludeRequiresAtLeastOneMatch(t *testing.T) {
	records := []logrecord.LogRecord{
		rec("web", "debug line"),
		rec("web", "info line"),
	}
	out := Apply(records, Input{
		Filters: []Filter{{Pattern: "info", Kind: Include}},
	})
	assert.Len(t, out, 1)
	assert.Equal(t, "info line", out[0].Content)
}

func TestApply_HiddenProcessDropped(t *testing.T) {
	records := []logrecord.LogRecord{
		rec("web", "line from web"),
		rec("worker", "line from worker"),
	}
	out := Apply(records, Input{
		HiddenProcesses: map[string]struct{}{"worker": {}},
	})
	assert.Len(t, out, 1)
	assert.Equal(t, "web", out[0].Source.ProcessName())
}

func TestApply_SearchPatternCaseInsensitive(t *testing.T) {
	records := []logrecord.LogRecord{
		rec("web", "Connection RESET by peer"),
		rec("web", "all good"),
	}
	out := Apply(records, Input{SearchPattern: "reset"})
	assert.Len(t, out, 1)
	assert.Equal(t, "Connection RESET by peer", out[0].Content)
}

func TestApply_FreezeGuardDropsRecordsAfterFrozenAt(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := logrecord.NewAt(logrecord.Source{Name: "web"}, "before", base)
	after := logrecord.NewAt(logrecord.Source{Name: "web"}, "after", base.Add(time.Second))
	frozenAt := base
	out := Apply([]logrecord.LogRecord{before, after}, Input{FrozenAt: &frozenAt})
	assert.Len(t, out, 1)
	assert.Equal(t, "before", out[0].Content)
}

func TestApply_TraceFilterKeepsTokenMatchesAndExpandedWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokenHit := logrecord.NewAt(logrecord.Source{Name: "web"}, "req abc123def456abc123def456abc1 done", base)
	contextBefore := logrecord.NewAt(logrecord.Source{Name: "web"}, "unrelated setup line", base.Add(-500*time.Millisecond))
	farAway := logrecord.NewAt(logrecord.Source{Name: "web"}, "unrelated far line", base.Add(-10*time.Second))

	out := Apply([]logrecord.LogRecord{contextBefore, tokenHit, farAway}, Input{
		Trace: TraceFilter{
			Active:       true,
			Token:        "abc123def456abc123def456abc1",
			Start:        base,
			End:          base,
			ExpandBefore: time.Second,
		},
	})
	assert.Len(t, out, 2)
	assert.Equal(t, "unrelated setup line", out[0].Content)
	assert.Equal(t, "req abc123def456abc123def456abc1 done", out[1].Content)
}

func TestApply_TraceFilterActiveWithNoExpandDropsNonToken(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []logrecord.LogRecord{
		logrecord.NewAt(logrecord.Source{Name: "web"}, "no token here", base),
	}
	out := Apply(records, Input{Trace: TraceFilter{Active: true, Token: "xyz", Start: base, End: base}})
	assert.Empty(t, out)
}

func TestApply_NoFiltersPassesEverythingThrough(t *testing.T) {
	records := []logrecord.LogRecord{rec("web", "a"), rec("worker", "b")}
	out := Apply(records, Input{})
	assert.Len(t, out, 2)
}
