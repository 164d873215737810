package promo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-engine/internal/bubble"
)

func lifecycleFixture(spec *Specification, key string) (*Lifecycle, *mapStore) {
	store := newMapStore()
	return NewLifecycle(store, spec, key), store
}

func openBubble(t *testing.T) *bubble.Bubble {
	t.Helper()
	e := bubble.NewElement("anchor", "main")
	b := bubble.NewFactory().Create(e, bubble.Params{Body: "b"})
	require.NotNil(t, b)
	return b
}

func TestLifecycle_CanShow(t *testing.T) {
	base := Specification{Feature: "f", Kind: KindSnooze, Anchor: "a",
		MaxShowCount: 3, SnoozeDuration: time.Hour}
	keyed := base
	keyed.Subtype = SubtypeKeyedNotice

	tests := []struct {
		name string
		spec *Specification
		key  string
		data *PromoData
		want Result
	}{
		{"no history", &base, "", nil, Success},
		{"dismissed", &base, "", &PromoData{IsDismissed: true}, PermanentlyDismissed},
		{"snooze active", &base, "", &PromoData{SnoozeCount: 1, LastSnoozeTime: time.Now()}, Snoozed},
		{"snooze expired", &base, "", &PromoData{SnoozeCount: 1, LastSnoozeTime: time.Now().Add(-2 * time.Hour)}, Success},
		{"show quota", &base, "", &PromoData{ShowCount: 3}, ExceededMaxShowCount},
		{"keyed, key spent", &keyed, "k1", &PromoData{ShownForKeys: []string{"k1"}}, PermanentlyDismissed},
		{"keyed, fresh key", &keyed, "k2", &PromoData{ShownForKeys: []string{"k1"}}, Success},
		{"keyed ignores dismissed bit", &keyed, "k2", &PromoData{IsDismissed: true}, Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc, store := lifecycleFixture(tt.spec, tt.key)
			if tt.data != nil {
				store.data[tt.spec.Feature] = *tt.data
			}
			assert.Equal(t, tt.want, lc.CanShow())
		})
	}
}

func TestLifecycle_CanSnooze(t *testing.T) {
	tests := []struct {
		name string
		spec Specification
		data *PromoData
		want bool
	}{
		{"toast never snoozes", Specification{Feature: "f", Kind: KindToast}, nil, false},
		{"snooze kind, no quota", Specification{Feature: "f", Kind: KindSnooze}, nil, true},
		{"under quota", Specification{Feature: "f", Kind: KindSnooze, MaxSnoozeCount: 2}, &PromoData{SnoozeCount: 1}, true},
		{"quota spent", Specification{Feature: "f", Kind: KindSnooze, MaxSnoozeCount: 2}, &PromoData{SnoozeCount: 2}, false},
		{"tutorial snoozes", Specification{Feature: "f", Kind: KindTutorial}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc, store := lifecycleFixture(&tt.spec, "")
			if tt.data != nil {
				store.data["f"] = *tt.data
			}
			assert.Equal(t, tt.want, lc.CanSnooze())
		})
	}
}

func TestLifecycle_Phases(t *testing.T) {
	spec := &Specification{Feature: "f", Kind: KindSnooze, Anchor: "a"}
	lc, store := lifecycleFixture(spec, "")
	trk := newFakeTracker()

	assert.Equal(t, PhaseNotShown, lc.Phase())

	b := openBubble(t)
	lc.OnPromoShown(b, trk)
	assert.Equal(t, PhaseBubbleVisible, lc.Phase())
	assert.True(t, lc.BubbleVisible())
	assert.False(t, lc.ShownAt().IsZero())

	data, _ := store.ReadPromoData("f")
	assert.Equal(t, 1, data.ShowCount)

	lc.OnPromoEnded(ClosedDismiss, false)
	assert.Equal(t, PhaseEnded, lc.Phase())
	assert.False(t, b.IsOpen())
	assert.Equal(t, []FeatureID{"f"}, trk.dismissed)

	data, _ = store.ReadPromoData("f")
	assert.True(t, data.IsDismissed)
}

func TestLifecycle_ContinuedPhase(t *testing.T) {
	spec := &Specification{Feature: "f", Kind: KindTutorial, Anchor: "a", TutorialID: "t"}
	lc, _ := lifecycleFixture(spec, "")
	lc.OnPromoShown(openBubble(t), newFakeTracker())

	lc.OnPromoEnded(ClosedAction, true)
	assert.Equal(t, PhaseContinued, lc.Phase())

	lc.OnContinuedPromoEnded(true)
	assert.Equal(t, PhaseEnded, lc.Phase())

	// Finalizing twice changes nothing.
	lc.OnContinuedPromoEnded(false)
	assert.Equal(t, PhaseEnded, lc.Phase())
}

func TestLifecycle_BubbleClosedMapping(t *testing.T) {
	tests := []struct {
		name   string
		reason bubble.CloseReason
		want   ClosedReason
	}{
		{"user close", bubble.ClosedByUser, ClosedCancel},
		{"timeout", bubble.ClosedOnTimeout, ClosedTimeout},
		{"anchor hidden", bubble.ClosedAnchorHidden, ClosedAbortedByFeature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc, store := lifecycleFixture(&Specification{Feature: "f", Kind: KindToast, Anchor: "a"}, "")
			lc.OnPromoShown(openBubble(t), newFakeTracker())

			assert.True(t, lc.OnPromoBubbleClosed(tt.reason))
			assert.Equal(t, PhaseEnded, lc.Phase())
			data, _ := store.ReadPromoData("f")
			assert.Equal(t, tt.want, data.LastDismissedBy)
		})
	}
}

func TestLifecycle_StaleBubbleCloseIgnored(t *testing.T) {
	lc, store := lifecycleFixture(&Specification{Feature: "f", Kind: KindToast, Anchor: "a"}, "")
	lc.OnPromoShown(openBubble(t), newFakeTracker())

	lc.OnPromoEnded(ClosedFeatureEngaged, false)
	// The close echo from the bubble teardown arrives after the end.
	assert.False(t, lc.OnPromoBubbleClosed(bubble.ClosedProgrammatically))

	data, _ := store.ReadPromoData("f")
	assert.Equal(t, ClosedFeatureEngaged, data.LastDismissedBy)
}

func TestLifecycle_EndRecordedOnce(t *testing.T) {
	lc, store := lifecycleFixture(&Specification{Feature: "f", Kind: KindSnooze, Anchor: "a"}, "")
	trk := newFakeTracker()
	lc.OnPromoShown(openBubble(t), trk)

	lc.OnPromoEnded(ClosedSnooze, false)
	lc.OnPromoEnded(ClosedDismiss, false)

	data, _ := store.ReadPromoData("f")
	assert.Equal(t, 1, data.SnoozeCount)
	assert.False(t, data.IsDismissed, "second end must not re-record")
	assert.Len(t, trk.dismissed, 1)
}

func TestLifecycle_DemoLeavesNoTrace(t *testing.T) {
	lc, store := lifecycleFixture(&Specification{Feature: "f", Kind: KindSnooze, Anchor: "a"}, "")
	lc.OnPromoShownForDemo(openBubble(t))
	lc.OnPromoEnded(ClosedDismiss, false)

	_, ok := store.ReadPromoData("f")
	assert.False(t, ok)
}

func TestLifecycle_EndedBeforeShow(t *testing.T) {
	lc, store := lifecycleFixture(&Specification{Feature: "f", Kind: KindToast, Anchor: "a"}, "")
	trk := newFakeTracker()

	lc.OnPromoEndedBeforeShow(trk)
	assert.Equal(t, PhaseEnded, lc.Phase())
	assert.Equal(t, []FeatureID{"f"}, trk.dismissed)

	_, ok := store.ReadPromoData("f")
	assert.False(t, ok, "a run that never showed writes no history")
}

func TestLifecycle_KeyedEndAppendsKey(t *testing.T) {
	spec := &Specification{Feature: "f", Kind: KindToast, Subtype: SubtypeKeyedNotice, Anchor: "a"}
	lc, store := lifecycleFixture(spec, "k1")
	lc.OnPromoShown(openBubble(t), newFakeTracker())
	lc.OnPromoEnded(ClosedDismiss, false)

	data, _ := store.ReadPromoData("f")
	assert.Equal(t, []string{"k1"}, data.ShownForKeys)
}
