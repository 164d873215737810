package promo

import (
	"time"

	"github.com/rs/zerolog/log"

	"promo-engine/internal/bubble"
)

// Phase is a lifecycle's position in its state machine.
//
//	NotShown -> BubbleVisible -> {Continued, Ended}
//	Continued -> Ended
//
// NotShown can also reach Ended directly when bubble creation fails and the
// lifecycle is discarded.
type Phase int

const (
	PhaseNotShown Phase = iota
	PhaseBubbleVisible
	PhaseContinued
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseBubbleVisible:
		return "bubble_visible"
	case PhaseContinued:
		return "continued"
	case PhaseEnded:
		return "ended"
	}
	return "not_shown"
}

// Lifecycle is one accepted promo run. It owns the phase machine and the
// promo-history bookkeeping for its feature; the controller owns the
// lifecycle itself and wires bubble callbacks into it.
type Lifecycle struct {
	storage StorageService
	spec    *Specification
	key     string

	phase   Phase
	bubble  *bubble.Bubble
	shownAt time.Time

	// wasDemo suppresses tracker and storage accounting for demo runs.
	wasDemo bool

	// tracker to dismiss when the run ends; nil once notified.
	tracker Tracker

	endRecorded bool
}

// NewLifecycle prepares a run for feature. Nothing is read or written until
// CanShow / OnPromoShown.
func NewLifecycle(storage StorageService, spec *Specification, key string) *Lifecycle {
	return &Lifecycle{storage: storage, spec: spec, key: key}
}

func (l *Lifecycle) Feature() FeatureID      { return l.spec.Feature }
func (l *Lifecycle) Subtype() Subtype        { return l.spec.Subtype }
func (l *Lifecycle) Kind() Kind              { return l.spec.Kind }
func (l *Lifecycle) Phase() Phase            { return l.phase }
func (l *Lifecycle) Bubble() *bubble.Bubble  { return l.bubble }
func (l *Lifecycle) BubbleVisible() bool     { return l.phase == PhaseBubbleVisible }
func (l *Lifecycle) ShownAt() time.Time      { return l.shownAt }

// CanShow runs the per-feature history gating: permanent dismissal, per-key
// quota, snooze window, show quota. Pure read; safe for speculative queries.
func (l *Lifecycle) CanShow() Result {
	data, ok := l.storage.ReadPromoData(l.spec.Feature)
	if !ok {
		return Success
	}
	if l.spec.Subtype == SubtypeKeyedNotice {
		if l.key != "" && data.HasKey(l.key) {
			return PermanentlyDismissed
		}
	} else if data.IsDismissed {
		return PermanentlyDismissed
	}
	if l.snoozeActive(&data) {
		return Snoozed
	}
	if l.spec.MaxShowCount > 0 && data.ShowCount >= l.spec.MaxShowCount {
		return ExceededMaxShowCount
	}
	return Success
}

// CanSnooze reports whether the bubble should offer a snooze button.
func (l *Lifecycle) CanSnooze() bool {
	if l.spec.Kind != KindSnooze && l.spec.Kind != KindTutorial {
		return false
	}
	if l.spec.MaxSnoozeCount <= 0 {
		return true
	}
	data, ok := l.storage.ReadPromoData(l.spec.Feature)
	return !ok || data.SnoozeCount < l.spec.MaxSnoozeCount
}

func (l *Lifecycle) snoozeActive(data *PromoData) bool {
	if data.SnoozeCount == 0 || l.spec.SnoozeDuration <= 0 {
		return false
	}
	return time.Since(data.LastSnoozeTime) < l.spec.SnoozeDuration
}

// OnPromoShown moves NotShown -> BubbleVisible and records the surfacing in
// stored history. tracker is remembered so the run can report its dismissal.
func (l *Lifecycle) OnPromoShown(b *bubble.Bubble, tracker Tracker) {
	l.bubble = b
	l.tracker = tracker
	l.phase = PhaseBubbleVisible
	l.shownAt = time.Now()

	data, _ := l.storage.ReadPromoData(l.spec.Feature)
	data.ShowCount++
	data.LastShowTime = l.shownAt
	l.save(data)
}

// OnPromoShownForDemo is OnPromoShown without tracker or history accounting,
// so previewing a promo never burns its quota.
func (l *Lifecycle) OnPromoShownForDemo(b *bubble.Bubble) {
	l.bubble = b
	l.phase = PhaseBubbleVisible
	l.shownAt = time.Now()
	l.wasDemo = true
}

// OnPromoBubbleClosed handles the bubble going away out from under the run
// (anchor hidden, user close routed straight to the bubble). Returns true if
// the lifecycle fully ended and the controller should drop it. A close that
// arrives after OnPromoEnded already ran is a stale signal and a no-op.
func (l *Lifecycle) OnPromoBubbleClosed(reason bubble.CloseReason) bool {
	if l.phase != PhaseBubbleVisible {
		return false
	}
	var closed ClosedReason
	switch reason {
	case bubble.ClosedByUser:
		closed = ClosedCancel
	case bubble.ClosedOnTimeout:
		closed = ClosedTimeout
	default:
		closed = ClosedAbortedByFeature
	}
	l.recordEnd(closed)
	l.phase = PhaseEnded
	return true
}

// OnPromoEnded ends the run with reason. With continueAfterClose the bubble
// closes but the promo session stays alive (Continued) until the
// continuation handle releases; otherwise the run is terminal.
func (l *Lifecycle) OnPromoEnded(reason ClosedReason, continueAfterClose bool) {
	l.recordEnd(reason)
	if continueAfterClose {
		l.phase = PhaseContinued
	} else {
		l.phase = PhaseEnded
	}
	if l.bubble != nil && l.bubble.IsOpen() {
		// Fires the controller's close callback re-entrantly; the phase
		// is already past BubbleVisible so the echo is ignored.
		l.bubble.Close(bubble.ClosedProgrammatically)
	}
}

// OnPromoEndedBeforeShow rolls back a run whose bubble never materialized.
// The tracker is told the promo was dismissed so its accounting does not
// believe the promo ran.
func (l *Lifecycle) OnPromoEndedBeforeShow(tracker Tracker) {
	l.phase = PhaseEnded
	if tracker != nil && !l.wasDemo {
		tracker.Dismissed(l.spec.Feature)
	}
}

// OnContinuedPromoEnded finalizes Continued -> Ended.
func (l *Lifecycle) OnContinuedPromoEnded(completed bool) {
	if l.phase != PhaseContinued {
		return
	}
	l.phase = PhaseEnded
	log.Debug().
		Str("feature", string(l.spec.Feature)).
		Bool("completed", completed).
		Msg("continued promo ended")
}

// recordEnd persists the close and releases the tracker exactly once.
func (l *Lifecycle) recordEnd(reason ClosedReason) {
	if l.endRecorded {
		return
	}
	l.endRecorded = true

	if l.tracker != nil {
		l.tracker.Dismissed(l.spec.Feature)
		l.tracker = nil
	}
	if l.wasDemo {
		return
	}

	data, _ := l.storage.ReadPromoData(l.spec.Feature)
	data.LastDismissedBy = reason
	if reason == ClosedSnooze {
		data.SnoozeCount++
		data.LastSnoozeTime = time.Now()
	} else if reason.permanentlyDismisses() {
		data.IsDismissed = true
	}
	if l.spec.Subtype == SubtypeKeyedNotice && l.key != "" && !data.HasKey(l.key) {
		data.ShownForKeys = append(data.ShownForKeys, l.key)
	}
	l.save(data)
}

func (l *Lifecycle) save(data PromoData) {
	if err := l.storage.SavePromoData(l.spec.Feature, data); err != nil {
		log.Error().Err(err).
			Str("feature", string(l.spec.Feature)).
			Msg("save promo history")
	}
}
