package oitui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/overitall/overitall/internal/logrecord"
	"github.com/overitall/overitall/internal/oitconfig"
	"github.com/overitall/overitall/internal/oitfilter"
	"github.com/overitall/overitall/internal/oitgroup"
	"github.com/overitall/overitall/internal/oitipc"
	"github.com/overitall/overitall/internal/oitview"
)

func newTestApp() *App {
	return &App{
		Config:     &oitconfig.Config{},
		Buffer:     logrecord.NewRingBuffer(1000, 1 << 20),
		View:       oitview.New(),
		Hidden:     make(map[string]struct{}),
		AutoScroll: true,
		Groups:     oitgroup.New(map[string][]string{"backend": {"web", "worker"}}, []string{"web", "worker", "cron"}),
	}
}

func TestAddFilterAppendsIncludeByDefault(t *testing.T) {
	a := newTestApp()
	a.addFilter("error", false)
	assert.Equal(t, []oitfilter.Filter{{Pattern: "error", Kind: oitfilter.Include}}, a.Filters)
}

func TestAddFilterExclude(t *testing.T) {
	a := newTestApp()
	a.addFilter("debug", true)
	assert.Equal(t, oitfilter.Exclude, a.Filters[0].Kind)
}

func TestRemoveFilterDropsOnlyMatchingPattern(t *testing.T) {
	a := newTestApp()
	a.addFilter("error", false)
	a.addFilter("warn", false)
	a.removeFilter("error")
	assert.Equal(t, []oitfilter.Filter{{Pattern: "warn", Kind: oitfilter.Include}}, a.Filters)
}

func TestApplyGotoSelectsRecordByNumericID(t *testing.T) {
	a := newTestApp()
	a.applyGoto("42")
	assert.True(t, a.View.HasSelection)
	assert.Equal(t, uint64(42), a.View.SelectedID)
}

func TestApplyGotoIgnoresNonNumericTarget(t *testing.T) {
	a := newTestApp()
	a.applyGoto("not-a-number")
	assert.False(t, a.View.HasSelection)
}

func TestApplyScrollUpDisablesAutoScrollAndAccumulates(t *testing.T) {
	a := newTestApp()
	a.applyScroll("up", 3)
	assert.False(t, a.AutoScroll)
	assert.Equal(t, 3, a.ScrollOffset)
	a.applyScroll("up", 2)
	assert.Equal(t, 5, a.ScrollOffset)
}

func TestApplyScrollDownClampsAtZero(t *testing.T) {
	a := newTestApp()
	a.ScrollOffset = 2
	a.applyScroll("down", 5)
	assert.Equal(t, 0, a.ScrollOffset)
}

func TestApplyScrollBottomResumesAutoScroll(t *testing.T) {
	a := newTestApp()
	a.ScrollOffset = 10
	a.AutoScroll = false
	a.applyScroll("bottom", 1)
	assert.True(t, a.AutoScroll)
	assert.Equal(t, 0, a.ScrollOffset)
}

func TestApplyFreezeOnThenOff(t *testing.T) {
	a := newTestApp()
	a.applyFreeze("on")
	assert.True(t, a.View.Frozen)
	a.applyFreeze("off")
	assert.False(t, a.View.Frozen)
}

func TestApplyFreezeToggle(t *testing.T) {
	a := newTestApp()
	a.applyFreeze("toggle")
	assert.True(t, a.View.Frozen)
	a.applyFreeze("toggle")
	assert.False(t, a.View.Frozen)
}

func TestApplyActionFilterClearEmptiesFilters(t *testing.T) {
	a := newTestApp()
	a.addFilter("error", false)
	a.applyAction(oitipc.Action{Kind: oitipc.ActionFilterClear})
	assert.Nil(t, a.Filters)
}

func TestApplyActionHideAndShowProcessResolveGroups(t *testing.T) {
	a := newTestApp()
	a.applyAction(oitipc.Action{Kind: oitipc.ActionHideProcess, Name: "backend"})
	_, webHidden := a.Hidden["web"]
	_, workerHidden := a.Hidden["worker"]
	assert.True(t, webHidden)
	assert.True(t, workerHidden)

	a.applyAction(oitipc.Action{Kind: oitipc.ActionShowProcess, Name: "backend"})
	_, webHidden = a.Hidden["web"]
	assert.False(t, webHidden)
}

func TestApplyActionSetAutoScrollClearsSelection(t *testing.T) {
	a := newTestApp()
	a.View.Select(7)
	a.applyAction(oitipc.Action{Kind: oitipc.ActionSetAutoScroll, Enabled: true})
	assert.True(t, a.AutoScroll)
	assert.False(t, a.View.HasSelection)
}
