package promo

// FeatureID is the stable key identifying which promo is being requested.
type FeatureID string

// Result is the tagged outcome of every decision point in the engine. It is
// returned, never wrapped in an error: each value is terminal for the call
// that produced it and carries no retry semantics.
type Result int

const (
	// Success means the promo was (or could be) shown.
	Success Result = iota
	// BlockedByConfig means the engagement tracker declined the feature.
	BlockedByConfig
	// BlockedByPromo means another promo owns the show slot, or the
	// feature is already queued for startup.
	BlockedByPromo
	// BlockedByUi means no valid anchor was available.
	BlockedByUi
	// FeatureDisabled means the feature's enablement flag is off.
	FeatureDisabled
	// Error means the specification is missing or the bubble could not be
	// created.
	Error
	// Canceled means a queued startup promo was withdrawn before the
	// tracker resolved.
	Canceled
	// Snoozed means the user snoozed the promo and the snooze period has
	// not yet elapsed.
	Snoozed
	// PermanentlyDismissed means the promo history says this promo must
	// never show again (or, for per-app promos, not for this key).
	PermanentlyDismissed
	// ExceededMaxShowCount means the promo has hit its show quota.
	ExceededMaxShowCount
)

// OK reports whether the promo may be (or was) shown.
func (r Result) OK() bool { return r == Success }

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case BlockedByConfig:
		return "blocked_by_config"
	case BlockedByPromo:
		return "blocked_by_promo"
	case BlockedByUi:
		return "blocked_by_ui"
	case FeatureDisabled:
		return "feature_disabled"
	case Error:
		return "error"
	case Canceled:
		return "canceled"
	case Snoozed:
		return "snoozed"
	case PermanentlyDismissed:
		return "permanently_dismissed"
	case ExceededMaxShowCount:
		return "exceeded_max_show_count"
	}
	return "unknown"
}

// ClosedReason records how a running promo ended.
type ClosedReason int

const (
	// ClosedDismiss is the explicit dismiss / "got it" button.
	ClosedDismiss ClosedReason = iota
	// ClosedCancel is the close button or escape.
	ClosedCancel
	// ClosedSnooze is the snooze button.
	ClosedSnooze
	// ClosedTimeout is the bubble's auto-dismiss timer.
	ClosedTimeout
	// ClosedAbortedByFeature is EndPromo called by feature code.
	ClosedAbortedByFeature
	// ClosedFeatureEngaged is the user engaging with the promoted feature.
	ClosedFeatureEngaged
	// ClosedAction is a custom action or tutorial button.
	ClosedAction
	// ClosedOverrideForDemo is preemption by a demo request.
	ClosedOverrideForDemo
	// ClosedOverrideForPrecedence is preemption by a higher-priority promo.
	ClosedOverrideForPrecedence
	// ClosedOverrideForUIRegionConflict is eviction because the bubble
	// overlapped a region the host needed.
	ClosedOverrideForUIRegionConflict
)

func (r ClosedReason) String() string {
	switch r {
	case ClosedDismiss:
		return "dismiss"
	case ClosedCancel:
		return "cancel"
	case ClosedSnooze:
		return "snooze"
	case ClosedTimeout:
		return "timeout"
	case ClosedAbortedByFeature:
		return "aborted_by_feature"
	case ClosedFeatureEngaged:
		return "feature_engaged"
	case ClosedAction:
		return "action"
	case ClosedOverrideForDemo:
		return "override_for_demo"
	case ClosedOverrideForPrecedence:
		return "override_for_precedence"
	case ClosedOverrideForUIRegionConflict:
		return "override_for_ui_region_conflict"
	}
	return "unknown"
}

// isOverride reports whether the reason means another promo is already in the
// middle of taking the slot, in which case the queue must not be drained.
func (r ClosedReason) isOverride() bool {
	return r == ClosedOverrideForDemo || r == ClosedOverrideForPrecedence
}

// permanentlyDismisses reports whether ending with this reason marks the
// promo as dismissed for good in stored history.
func (r ClosedReason) permanentlyDismisses() bool {
	switch r {
	case ClosedDismiss, ClosedCancel, ClosedFeatureEngaged, ClosedAction:
		return true
	}
	return false
}

// Status is the externally visible state of a feature's promo.
type Status int

const (
	// StatusNotRunning means no promo for the feature is active or queued.
	StatusNotRunning Status = iota
	// StatusQueuedForStartup means the promo awaits tracker initialization.
	StatusQueuedForStartup
	// StatusBubbleShowing means the promo's bubble is on screen.
	StatusBubbleShowing
	// StatusContinued means the bubble closed but the promo session is
	// still alive through a handle.
	StatusContinued
)

func (s Status) String() string {
	switch s {
	case StatusNotRunning:
		return "not_running"
	case StatusQueuedForStartup:
		return "queued_for_startup"
	case StatusBubbleShowing:
		return "bubble_showing"
	case StatusContinued:
		return "continued"
	}
	return "unknown"
}
