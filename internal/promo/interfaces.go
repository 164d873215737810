package promo

import (
	"time"
)

// Params is the ephemeral value a caller passes to request a promo. It is
// consumed by the call; the engine keeps no reference to it afterwards
// (startup requests excepted, which hold it until the tracker resolves).
type Params struct {
	Feature FeatureID

	// Key scopes SubtypeKeyedNotice promos (e.g. an app identifier).
	Key string

	BodyArgs  []any
	TitleArgs []any

	// OnClose fires when the promo's bubble closes, whatever the reason.
	OnClose func()

	// OnStartupResolved fires once for startup requests when the queued
	// promo resolves: shown, failed, or canceled.
	OnStartupResolved func(FeatureID, Result)
}

// PromoData is the stored per-feature promo history.
type PromoData struct {
	IsDismissed     bool
	LastDismissedBy ClosedReason
	ShowCount       int
	SnoozeCount     int
	LastShowTime    time.Time
	LastSnoozeTime  time.Time
	ShownForKeys    []string
}

// HasKey reports whether a keyed promo already showed for key.
func (d *PromoData) HasKey(key string) bool {
	for _, k := range d.ShownForKeys {
		if k == key {
			return true
		}
	}
	return false
}

// StorageService persists promo history. The engine only orchestrates when
// history is read (lifecycle gating) and written (promo end); the format and
// medium belong to the implementation.
type StorageService interface {
	ReadPromoData(feature FeatureID) (PromoData, bool)
	SavePromoData(feature FeatureID, data PromoData) error
	ResetPromoData(feature FeatureID) error
}

// Tracker is the engagement-tracking backend deciding, statistically, whether
// a feature's help should surface. It initializes asynchronously; every other
// method is synchronous.
type Tracker interface {
	IsInitialized() bool

	// AddOnInitializedCallback registers a one-shot continuation. It fires
	// synchronously if initialization already completed.
	AddOnInitializedCallback(func(success bool))

	// WouldTriggerHelpUI is the side-effect-free form of ShouldTriggerHelpUI.
	WouldTriggerHelpUI(feature FeatureID) bool

	// ShouldTriggerHelpUI asks permission to surface the promo and, when
	// granted, marks it triggered until Dismissed is called.
	ShouldTriggerHelpUI(feature FeatureID) bool

	Dismissed(feature FeatureID)
	NotifyEvent(name string)
	NotifyUsedEvent(feature FeatureID)
}

// TutorialService runs multi-step tutorials handed off from tutorial promos.
type TutorialService interface {
	StartTutorial(id string, onComplete, onAbort func())
	IsRunning() bool
	LogPromoLinkClicked(id string, started bool)
}

// FeatureGate is the application-level enablement flag for a feature.
type FeatureGate interface {
	Enabled(feature FeatureID) bool
}

// GateFunc adapts a function to the FeatureGate interface.
type GateFunc func(FeatureID) bool

func (f GateFunc) Enabled(feature FeatureID) bool { return f(feature) }

// AllEnabled is the gate that turns nothing off.
var AllEnabled FeatureGate = GateFunc(func(FeatureID) bool { return true })
