// Package tracker provides the engagement-tracking backend the promo engine
// consults before surfacing help. It keeps per-session event counts and
// enforces "don't promote what the user already uses"; richer statistical
// models can replace it behind the same interface.
package tracker

import (
	"github.com/rs/zerolog/log"

	"promo-engine/internal/promo"
)

// Tracker implements promo.Tracker. It initializes asynchronously: the host
// calls Initialize once its backing data is loaded, and queued callbacks fire
// at that point. All methods run on the host's UI goroutine.
type Tracker struct {
	initialized bool
	initOK      bool
	pending     []func(bool)

	events    map[string]int
	used      map[promo.FeatureID]bool
	triggered map[promo.FeatureID]bool
	shows     map[promo.FeatureID]int

	// maxShowsPerSession caps how often one feature's help surfaces in a
	// session; zero means unlimited.
	maxShowsPerSession int
}

func New(maxShowsPerSession int) *Tracker {
	return &Tracker{
		events:             map[string]int{},
		used:               map[promo.FeatureID]bool{},
		triggered:          map[promo.FeatureID]bool{},
		shows:              map[promo.FeatureID]int{},
		maxShowsPerSession: maxShowsPerSession,
	}
}

// Initialize completes (or fails) backend startup and fires every queued
// continuation exactly once. Later calls are ignored.
func (t *Tracker) Initialize(ok bool) {
	if t.initialized {
		return
	}
	t.initialized = true
	t.initOK = ok
	log.Info().Bool("ok", ok).Msg("engagement tracker initialized")

	pending := t.pending
	t.pending = nil
	for _, cb := range pending {
		cb(ok)
	}
}

func (t *Tracker) IsInitialized() bool { return t.initialized }

// AddOnInitializedCallback registers a one-shot continuation, firing it
// synchronously if initialization already happened.
func (t *Tracker) AddOnInitializedCallback(cb func(bool)) {
	if t.initialized {
		cb(t.initOK)
		return
	}
	t.pending = append(t.pending, cb)
}

// WouldTriggerHelpUI answers the trigger question without committing.
func (t *Tracker) WouldTriggerHelpUI(feature promo.FeatureID) bool {
	if !t.initialized || !t.initOK {
		return false
	}
	if t.used[feature] {
		return false
	}
	if t.maxShowsPerSession > 0 && t.shows[feature] >= t.maxShowsPerSession {
		return false
	}
	// Only one piece of tracked help at a time.
	return len(t.triggered) == 0
}

// ShouldTriggerHelpUI commits: on success the feature counts as showing until
// Dismissed.
func (t *Tracker) ShouldTriggerHelpUI(feature promo.FeatureID) bool {
	if !t.WouldTriggerHelpUI(feature) {
		return false
	}
	t.triggered[feature] = true
	t.shows[feature]++
	t.events["trigger:"+string(feature)]++
	return true
}

func (t *Tracker) Dismissed(feature promo.FeatureID) {
	delete(t.triggered, feature)
}

func (t *Tracker) NotifyEvent(name string) {
	t.events[name]++
}

// NotifyUsedEvent marks the feature as used; its help stops triggering for
// the rest of the session.
func (t *Tracker) NotifyUsedEvent(feature promo.FeatureID) {
	t.used[feature] = true
	t.events["used:"+string(feature)]++
}

// EventCount reports how often a named event fired this session.
func (t *Tracker) EventCount(name string) int { return t.events[name] }
