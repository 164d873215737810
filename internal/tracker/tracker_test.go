package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tr := New(0)
	assert.False(t, tr.IsInitialized())

	var results []bool
	tr.AddOnInitializedCallback(func(ok bool) { results = append(results, ok) })
	tr.AddOnInitializedCallback(func(ok bool) { results = append(results, ok) })
	assert.Empty(t, results, "callbacks wait for initialization")

	tr.Initialize(true)
	assert.True(t, tr.IsInitialized())
	assert.Equal(t, []bool{true, true}, results)

	// Late registration fires synchronously; re-initialization is ignored.
	tr.AddOnInitializedCallback(func(ok bool) { results = append(results, ok) })
	assert.Len(t, results, 3)
	tr.Initialize(false)
	assert.Len(t, results, 3)
}

func TestInitializeFailure(t *testing.T) {
	tr := New(0)
	tr.Initialize(false)
	assert.True(t, tr.IsInitialized())
	assert.False(t, tr.WouldTriggerHelpUI("f"), "failed backend never triggers")
}

func TestTriggerLifetime(t *testing.T) {
	tr := New(0)
	tr.Initialize(true)

	assert.True(t, tr.WouldTriggerHelpUI("f"))
	assert.True(t, tr.ShouldTriggerHelpUI("f"))

	// While one promo is triggered nothing else surfaces.
	assert.False(t, tr.WouldTriggerHelpUI("g"))
	assert.False(t, tr.ShouldTriggerHelpUI("g"))

	tr.Dismissed("f")
	assert.True(t, tr.WouldTriggerHelpUI("g"))
}

func TestWouldTriggerDoesNotCommit(t *testing.T) {
	tr := New(0)
	tr.Initialize(true)

	assert.True(t, tr.WouldTriggerHelpUI("f"))
	assert.True(t, tr.WouldTriggerHelpUI("g"), "queries leave no trace")
}

func TestUsedFeatureStopsTriggering(t *testing.T) {
	tr := New(0)
	tr.Initialize(true)

	tr.NotifyUsedEvent("f")
	assert.False(t, tr.WouldTriggerHelpUI("f"))
	assert.True(t, tr.WouldTriggerHelpUI("g"))
	assert.Equal(t, 1, tr.EventCount("used:f"))
}

func TestMaxShowsPerSession(t *testing.T) {
	tr := New(2)
	tr.Initialize(true)

	for i := 0; i < 2; i++ {
		assert.True(t, tr.ShouldTriggerHelpUI("f"))
		tr.Dismissed("f")
	}
	assert.False(t, tr.ShouldTriggerHelpUI("f"), "session quota spent")
	assert.True(t, tr.ShouldTriggerHelpUI("g"), "quota is per feature")
}

func TestNotifyEvent(t *testing.T) {
	tr := New(0)
	tr.NotifyEvent("opened_menu")
	tr.NotifyEvent("opened_menu")
	assert.Equal(t, 2, tr.EventCount("opened_menu"))
	assert.Equal(t, 0, tr.EventCount("other"))
}
