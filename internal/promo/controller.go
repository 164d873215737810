// Package promo implements the arbitration core of the contextual-help
// subsystem: the controller deciding whether a promo may show, the lifecycle
// of a running promo, and the priority policy between concurrent requests.
//
// The package is single-threaded by contract. Every public operation must be
// called from one goroutine (the host UI loop); the only asynchronous
// boundary is the tracker's initialization callback, which the tracker
// delivers on that same goroutine.
package promo

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"promo-engine/internal/bubble"
	"promo-engine/internal/observability"
)

const defaultBubbleTimeout = 10 * time.Second

// showSource distinguishes the three entry paths into the common show logic.
type showSource int

const (
	showNormal showSource = iota
	showQueue
	showDemo
)

// ControllerConfig wires the controller's collaborators.
type ControllerConfig struct {
	Registry  *Registry
	Tracker   Tracker
	Bubbles   *bubble.Factory
	Anchors   *bubble.Resolver
	Storage   StorageService
	Tutorials TutorialService

	// Features gates promos on application-level enablement; nil means
	// everything is enabled.
	Features FeatureGate

	// AnchorContext is the window context promos anchor in; empty resolves
	// across all contexts.
	AnchorContext bubble.ContextID

	// DemoMode bypasses history and policy gating (never the critical
	// rule) so authors can preview promos.
	DemoMode bool

	// DefaultTimeout applies to specs that leave Timeout zero.
	DefaultTimeout time.Duration

	// Strict panics on programmer-error conditions instead of logging and
	// no-opping. Tests run strict.
	Strict bool
}

// Controller owns the single active normal-promo slot, the single active
// critical-promo slot and the startup queue. Nothing else may set or clear
// those slots.
type Controller struct {
	log       zerolog.Logger
	registry  *Registry
	tracker   Tracker
	bubbles   *bubble.Factory
	anchors   *bubble.Resolver
	storage   StorageService
	tutorials TutorialService
	features  FeatureGate
	policy    SessionPolicy

	anchorContext  bubble.ContextID
	demoMode       bool
	defaultTimeout time.Duration
	strict         bool

	// current is the one normal-slot lifecycle; criticalBubble the one
	// critical-slot bubble, remembered by identity only (the factory owns
	// the bubble object).
	current        *Lifecycle
	criticalBubble *bubble.Bubble

	// lastPromoInfo snapshots whichever promo most recently started, for
	// arbitration while it shows. Critical promos have no lifecycle, so
	// this cannot be re-derived.
	lastPromoInfo PromoInfo

	// queued holds startup requests awaiting tracker initialization, in
	// arrival order, at most one entry per feature.
	queued []*queuedPromo

	tutorialHandle *Handle
	closeCallback  func()
}

type queuedPromo struct {
	params Params
	info   PromoInfo
}

func NewController(cfg ControllerConfig) *Controller {
	if cfg.Features == nil {
		cfg.Features = AllEnabled
	}
	if cfg.DefaultTimeout == 0 {
		cfg.DefaultTimeout = defaultBubbleTimeout
	}
	return &Controller{
		log:            log.With().Str("component", "promo-controller").Logger(),
		registry:       cfg.Registry,
		tracker:        cfg.Tracker,
		bubbles:        cfg.Bubbles,
		anchors:        cfg.Anchors,
		storage:        cfg.Storage,
		tutorials:      cfg.Tutorials,
		features:       cfg.Features,
		anchorContext:  cfg.AnchorContext,
		demoMode:       cfg.DemoMode,
		defaultTimeout: cfg.DefaultTimeout,
		strict:         cfg.Strict,
	}
}

// canShowOutputs carries the state assembled by canShowCommon so the show
// path does not re-derive it.
type canShowOutputs struct {
	spec      *Specification
	lifecycle *Lifecycle
	anchor    *bubble.Element
}

// canShowCommon runs every synchronous eligibility check shared by queries
// and show attempts. It mutates nothing.
func (c *Controller) canShowCommon(p Params, src showSource) (Result, *canShowOutputs) {
	forDemo := src == showDemo

	// A feature queued for startup owns its own pending attempt. Explicit
	// demos bypass this: the feature may be queued precisely because it is
	// being demoed.
	if !forDemo && c.isQueued(p.Feature) {
		return BlockedByPromo, nil
	}

	spec := c.registry.Lookup(p.Feature)
	if spec == nil {
		return Error, nil
	}

	if !forDemo && !c.demoMode && !c.features.Enabled(p.Feature) {
		return FeatureDisabled, nil
	}

	lc := NewLifecycle(c.storage, spec, p.Key)
	if !forDemo && !c.demoMode {
		if r := lc.CanShow(); !r.OK() {
			return r, nil
		}
	}

	current := c.currentPromoInfo()

	if !forDemo && !c.demoMode {
		info := c.policy.PromoInfoFor(spec)
		if r := c.policy.CanShow(info, current); !r.OK() {
			return r, nil
		}
		// A queued promo that would preempt this one wins even though it
		// is not running yet, unless this attempt is the queue draining
		// itself.
		if src != showQueue {
			if q := c.nextQueued(); q != nil && c.policy.CanShow(q.info, &info).OK() {
				return BlockedByPromo, nil
			}
		}
	} else if current != nil && current.Priority == PriorityHigh {
		// Demo requests preview over anything except a high-priority
		// promo; that rule is never bypassed.
		return BlockedByPromo, nil
	}

	anchor := c.anchors.Resolve(spec.Anchor, c.anchorContext)
	if anchor == nil {
		return BlockedByUi, nil
	}

	return Success, &canShowOutputs{spec: spec, lifecycle: lc, anchor: anchor}
}

// currentPromoInfo reports what occupies the show slot right now: the
// tracked current/critical promo, a foreign bubble (zero-value info), or
// nothing (nil).
func (c *Controller) currentPromoInfo() *PromoInfo {
	if c.current != nil || c.criticalBubble != nil {
		info := c.lastPromoInfo
		return &info
	}
	if c.bubbles.AnyBubbleShowing() {
		return &PromoInfo{}
	}
	return nil
}

// CanShowPromo reports whether MaybeShowPromo would succeed right now,
// without creating or ending anything.
func (c *Controller) CanShowPromo(p Params) Result {
	r, _ := c.canShowCommon(p, showNormal)
	if r.OK() && !c.tracker.WouldTriggerHelpUI(p.Feature) {
		return BlockedByConfig
	}
	return r
}

// MaybeShowPromo attempts to show the promo for p.Feature immediately.
// Exactly one of {nothing, bubble created, current promo ended + bubble
// created} happens per call.
func (c *Controller) MaybeShowPromo(p Params) Result {
	return c.maybeShowPromoImpl(p, showNormal)
}

// MaybeShowPromoForDemo previews a promo, bypassing history and policy
// gating (but never an active high-priority promo). The current promo, if
// any, ends with ClosedOverrideForDemo.
func (c *Controller) MaybeShowPromoForDemo(p Params) Result {
	return c.maybeShowPromoImpl(p, showDemo)
}

func (c *Controller) maybeShowPromoImpl(p Params, src showSource) Result {
	feature := p.Feature
	r := c.maybeShowPromoCommon(p, src)
	if !r.OK() {
		c.recordPromoNotShown(feature, r)
	}
	return r
}

func (c *Controller) maybeShowPromoCommon(p Params, src showSource) Result {
	r, out := c.canShowCommon(p, src)
	if !r.OK() {
		return r
	}
	forDemo := src == showDemo

	// Preemption happens here, not in the policy: the policy only said the
	// candidate may take the slot.
	if c.current != nil {
		reason := ClosedOverrideForPrecedence
		if forDemo {
			reason = ClosedOverrideForDemo
		}
		c.EndPromo(c.current.Feature(), reason)
	}

	// A foreign bubble in the target context also has to go.
	if hb := c.bubbles.BubbleIn(out.anchor.Context()); hb != nil {
		hb.Close(bubble.ClosedProgrammatically)
	}

	if !forDemo && !c.tracker.ShouldTriggerHelpUI(p.Feature) {
		return BlockedByConfig
	}

	// Commit point. The slot must be set before the bubble exists so the
	// lifecycle's own callbacks find it, and rolled back if creation fails.
	lc := out.lifecycle
	c.current = lc

	b := c.bubbles.Create(out.anchor, c.buildBubbleParams(out.spec, p, lc.CanSnooze(), false))
	if b == nil {
		c.current = nil
		lc.OnPromoEndedBeforeShow(c.trackerForRollback(forDemo))
		return Error
	}

	c.lastPromoInfo = c.policy.PromoInfoFor(out.spec)
	c.closeCallback = p.OnClose
	b.AddOnClose(c.onBubbleClosed)

	if forDemo {
		lc.OnPromoShownForDemo(b)
	} else {
		lc.OnPromoShown(b, c.tracker)
	}

	observability.PromosShown.WithLabelValues(string(p.Feature)).Inc()
	c.log.Info().
		Str("feature", string(p.Feature)).
		Str("kind", out.spec.Kind.String()).
		Str("subtype", out.spec.Subtype.String()).
		Msg("promo shown")
	return Success
}

func (c *Controller) trackerForRollback(forDemo bool) Tracker {
	if forDemo {
		return nil
	}
	return c.tracker
}

// MaybeShowStartupPromo queues p to be attempted once the tracker finishes
// initializing. Returns true when accepted (outcome pending); false when the
// feature is disabled, unknown, already running or already queued.
func (c *Controller) MaybeShowStartupPromo(p Params) bool {
	if !c.demoMode && !c.features.Enabled(p.Feature) {
		c.recordPromoNotShown(p.Feature, FeatureDisabled)
		return false
	}
	if f, ok := c.currentFeature(); ok && f == p.Feature {
		return false
	}
	if c.isQueued(p.Feature) {
		return false
	}
	spec := c.registry.Lookup(p.Feature)
	if spec == nil {
		return false
	}

	c.queued = append(c.queued, &queuedPromo{params: p, info: c.policy.PromoInfoFor(spec)})
	c.log.Debug().Str("feature", string(p.Feature)).Msg("promo queued for startup")

	// Fires synchronously if the tracker already initialized.
	c.tracker.AddOnInitializedCallback(c.onTrackerInitialized)
	return true
}

func (c *Controller) onTrackerInitialized(success bool) {
	if success {
		c.maybeShowQueuedPromo()
	} else {
		c.failQueuedPromos()
	}
}

// maybeShowQueuedPromo drains the startup queue: highest-priority entry
// first, each removed from the queue before its attempt so the attempt never
// observes itself as queued. On failure the next entry is tried immediately.
func (c *Controller) maybeShowQueuedPromo() {
	// The queue only drains once the tracker can answer trigger queries.
	if !c.tracker.IsInitialized() {
		return
	}
	current := c.currentPromoInfo()

	idx := c.nextQueuedIndex()
	if idx < 0 {
		return
	}
	next := c.queued[idx]

	if current != nil && !c.policy.CanShow(next.info, current).OK() {
		return
	}

	c.queued = append(c.queued[:idx], c.queued[idx+1:]...)

	p := next.params
	r := c.maybeShowPromoImpl(p, showQueue)
	if p.OnStartupResolved != nil {
		p.OnStartupResolved(p.Feature, r)
	}
	if !r.OK() {
		c.maybeShowQueuedPromo()
	}
}

func (c *Controller) failQueuedPromos() {
	queued := c.queued
	c.queued = nil
	for _, q := range queued {
		c.recordPromoNotShown(q.params.Feature, Error)
		if q.params.OnStartupResolved != nil {
			q.params.OnStartupResolved(q.params.Feature, Error)
		}
	}
}

func (c *Controller) isQueued(feature FeatureID) bool {
	return c.findQueued(feature) >= 0
}

func (c *Controller) findQueued(feature FeatureID) int {
	for i, q := range c.queued {
		if q.params.Feature == feature {
			return i
		}
	}
	return -1
}

// nextQueuedIndex picks the highest-priority queued promo, earliest arrival
// winning ties.
func (c *Controller) nextQueuedIndex() int {
	best := -1
	for i, q := range c.queued {
		if best < 0 || q.info.Priority > c.queued[best].info.Priority {
			best = i
		}
	}
	return best
}

func (c *Controller) nextQueued() *queuedPromo {
	if i := c.nextQueuedIndex(); i >= 0 {
		return c.queued[i]
	}
	return nil
}

// EndPromo ends the promo for feature. A queued startup entry is canceled
// (its resolution callback gets Canceled). Ending a promo that is not
// current is an idempotent no-op returning false. For a current promo the
// return value reports whether a bubble was actually visible.
func (c *Controller) EndPromo(feature FeatureID, reason ClosedReason) bool {
	if i := c.findQueued(feature); i >= 0 {
		q := c.queued[i]
		c.queued = append(c.queued[:i], c.queued[i+1:]...)
		if q.params.OnStartupResolved != nil {
			q.params.OnStartupResolved(feature, Canceled)
		}
		c.log.Debug().Str("feature", string(feature)).Msg("queued promo canceled")
		return true
	}

	if f, ok := c.currentFeature(); !ok || f != feature {
		return false
	}
	wasOpen := c.current.BubbleVisible()
	c.recordPromoEnded(reason, false)
	return wasOpen
}

// recordPromoEnded drives the current lifecycle's end transition and, when
// the slot frees up for good, tries the startup queue. Ends with an override
// reason skip the queue; the overriding promo is already claiming the slot.
func (c *Controller) recordPromoEnded(reason ClosedReason, continueAfterClose bool) {
	lc := c.current
	if !lc.ShownAt().IsZero() {
		observability.PromoVisibleDuration.Observe(time.Since(lc.ShownAt()).Seconds())
	}
	observability.PromosEnded.WithLabelValues(reason.String()).Inc()
	c.log.Info().
		Str("feature", string(lc.Feature())).
		Str("reason", reason.String()).
		Bool("continued", continueAfterClose).
		Msg("promo ended")

	lc.OnPromoEnded(reason, continueAfterClose)
	if continueAfterClose {
		return
	}
	c.current = nil
	if !reason.isOverride() {
		c.maybeShowQueuedPromo()
	}
}

// ShowCriticalPromo bypasses the queue and policy entirely for mandatory
// notices. Refuses to stack on an existing critical promo; preempts a
// current normal promo with ClosedOverrideForPrecedence. Returns the bubble,
// or nil on failure. Critical bubbles never snooze and never time out.
func (c *Controller) ShowCriticalPromo(spec *Specification, p Params) *bubble.Bubble {
	if c.criticalBubble != nil {
		c.programmerError("critical promo already showing")
		return nil
	}
	if spec.Kind == KindSnooze || spec.Kind == KindTutorial {
		c.programmerError("snooze and tutorial promos cannot be critical")
		return nil
	}

	if f, ok := c.currentFeature(); ok {
		c.EndPromo(f, ClosedOverrideForPrecedence)
	}

	anchor := c.anchors.Resolve(spec.Anchor, c.anchorContext)
	if anchor == nil {
		return nil
	}
	b := c.bubbles.Create(anchor, c.buildBubbleParams(spec, p, false, true))
	if b == nil {
		return nil
	}

	c.criticalBubble = b
	b.AddOnClose(c.onBubbleClosed)
	c.lastPromoInfo = PromoInfo{Priority: PriorityHigh, Subtype: spec.Subtype}

	observability.PromosShown.WithLabelValues(string(spec.Feature)).Inc()
	c.log.Info().Str("feature", string(spec.Feature)).Msg("critical promo shown")
	return b
}

// CloseBubbleAndContinuePromo closes feature's bubble but keeps the promo
// session alive, returning the handle whose final release ends it. Calling
// this for a non-current feature is a caller bug.
func (c *Controller) CloseBubbleAndContinuePromo(feature FeatureID) *Handle {
	return c.closeBubbleAndContinuePromo(feature, ClosedFeatureEngaged)
}

func (c *Controller) closeBubbleAndContinuePromo(feature FeatureID, reason ClosedReason) *Handle {
	if f, ok := c.currentFeature(); !ok || f != feature {
		c.programmerError("continue requested for non-current promo " + string(feature))
		return &Handle{released: true}
	}
	c.recordPromoEnded(reason, true)
	return newHandle(c, feature)
}

// finishContinuedPromo is the handle-release path from Continued to Ended.
func (c *Controller) finishContinuedPromo(feature FeatureID, completed bool) {
	if f, ok := c.currentFeature(); !ok || f != feature {
		return
	}
	c.current.OnContinuedPromoEnded(completed)
	c.current = nil
	c.maybeShowQueuedPromo()
}

// GetPromoStatus is a pure query of feature's externally visible state.
func (c *Controller) GetPromoStatus(feature FeatureID) Status {
	if c.isQueued(feature) {
		return StatusQueuedForStartup
	}
	if f, ok := c.currentFeature(); !ok || f != feature {
		return StatusNotRunning
	}
	if c.current.BubbleVisible() {
		return StatusBubbleShowing
	}
	return StatusContinued
}

// HasPromoBeenDismissed reports whether stored history forbids reshowing the
// promo, and with which close reason it last ended. Keyed-notice promos are
// checked against the request's key rather than the dismissed bit.
func (c *Controller) HasPromoBeenDismissed(p Params) (bool, ClosedReason) {
	spec := c.registry.Lookup(p.Feature)
	if spec == nil {
		return false, 0
	}
	data, ok := c.storage.ReadPromoData(p.Feature)
	if !ok {
		return false, 0
	}
	if spec.Subtype == SubtypeKeyedNotice {
		if p.Key == "" {
			return false, data.LastDismissedBy
		}
		return data.HasKey(p.Key), data.LastDismissedBy
	}
	return data.IsDismissed, data.LastDismissedBy
}

// DismissBubbleInRegion evicts the current normal promo's bubble when it
// overlaps region (the host needs to repaint there). Critical bubbles are
// never evicted. Reports whether anything was dismissed.
func (c *Controller) DismissBubbleInRegion(region bubble.Rect) bool {
	if c.current == nil || !c.current.BubbleVisible() {
		return false
	}
	if !c.current.Bubble().Bounds().Intersects(region) {
		return false
	}
	return c.EndPromo(c.current.Feature(), ClosedOverrideForUIRegionConflict)
}

// NotifyFeatureUsed forwards a used-event to the tracker for enabled,
// registered features so the backend stops promoting what the user already
// found.
func (c *Controller) NotifyFeatureUsed(feature FeatureID) {
	if c.features.Enabled(feature) && c.registry.Registered(feature) {
		c.tracker.NotifyUsedEvent(feature)
	}
}

func (c *Controller) currentFeature() (FeatureID, bool) {
	if c.current == nil {
		return "", false
	}
	return c.current.Feature(), true
}

// CurrentBubble exposes the current normal promo's bubble, mainly for the
// demo surface and tests.
func (c *Controller) CurrentBubble() *bubble.Bubble {
	if c.current == nil {
		return nil
	}
	return c.current.Bubble()
}

// CriticalBubble exposes the current critical bubble, if any.
func (c *Controller) CriticalBubble() *bubble.Bubble { return c.criticalBubble }

// onBubbleClosed routes every bubble close back into the state machine.
// Closes can arrive re-entrantly or for bubbles that already stopped being
// current; each branch re-validates identity before mutating anything.
func (c *Controller) onBubbleClosed(b *bubble.Bubble, reason bubble.CloseReason) {
	if b == c.criticalBubble {
		c.criticalBubble = nil
	} else if c.current != nil && c.current.Bubble() == b {
		if c.current.OnPromoBubbleClosed(reason) {
			c.current = nil
		}
	}

	if c.closeCallback != nil {
		cb := c.closeCallback
		c.closeCallback = nil
		cb()
	}
}

// Button and timeout callbacks all guard on "is this still the current
// promo": a stale signal is a safe no-op.

func (c *Controller) onBubbleTimeout(feature FeatureID) {
	if f, ok := c.currentFeature(); ok && f == feature {
		c.recordPromoEnded(ClosedTimeout, false)
	}
}

func (c *Controller) onSnoozed(feature FeatureID) {
	if f, ok := c.currentFeature(); ok && f == feature {
		c.recordPromoEnded(ClosedSnooze, false)
	}
}

func (c *Controller) onDismissed(feature FeatureID, viaActionButton bool) {
	if f, ok := c.currentFeature(); ok && f == feature {
		reason := ClosedCancel
		if viaActionButton {
			reason = ClosedDismiss
		}
		c.recordPromoEnded(reason, false)
	}
}

func (c *Controller) onCustomAction(feature FeatureID, action func(*Handle)) {
	if f, ok := c.currentFeature(); !ok || f != feature {
		return
	}
	action(c.closeBubbleAndContinuePromo(feature, ClosedAction))
}

func (c *Controller) onTutorialStarted(feature FeatureID, tutorialID string) {
	if f, ok := c.currentFeature(); !ok || f != feature {
		return
	}
	c.tutorialHandle = c.closeBubbleAndContinuePromo(feature, ClosedAction)
	c.tutorials.StartTutorial(tutorialID,
		func() { c.onTutorialFinished(feature, true) },
		func() { c.onTutorialFinished(feature, false) })
	if c.tutorials.IsRunning() {
		c.tutorials.LogPromoLinkClicked(tutorialID, true)
	}
}

func (c *Controller) onTutorialFinished(feature FeatureID, completed bool) {
	if c.tutorialHandle != nil {
		c.tutorialHandle.invalidate()
		c.tutorialHandle.Release()
		c.tutorialHandle = nil
	}
	if f, ok := c.currentFeature(); ok && f == feature {
		c.current.OnContinuedPromoEnded(completed)
		c.current = nil
		c.maybeShowQueuedPromo()
	}
}

func (c *Controller) onTutorialBubbleSnoozed(feature FeatureID, tutorialID string) {
	c.onSnoozed(feature)
	c.tutorials.LogPromoLinkClicked(tutorialID, false)
}

func (c *Controller) onTutorialBubbleDismissed(feature FeatureID, tutorialID string) {
	c.onDismissed(feature, true)
	c.tutorials.LogPromoLinkClicked(tutorialID, false)
}

// buildBubbleParams assembles the bubble content and button set for spec.
func (c *Controller) buildBubbleParams(spec *Specification, p Params, canSnooze, critical bool) bubble.Params {
	feature := spec.Feature
	params := bubble.Params{
		Body:      formatTemplate(spec.Body, p.BodyArgs),
		Title:     formatTemplate(spec.Title, p.TitleArgs),
		OnDismiss: func() { c.onDismissed(feature, false) },
	}

	if !critical {
		switch {
		case spec.Timeout < 0:
			// No auto-dismiss.
		case spec.Timeout == 0:
			params.Timeout = c.defaultTimeout
		default:
			params.Timeout = spec.Timeout
		}
		if params.Timeout > 0 {
			params.OnTimeout = func() { c.onBubbleTimeout(feature) }
		}
	}

	switch spec.Kind {
	case KindSnooze:
		params.Buttons = c.snoozeButtons(feature, canSnooze)
	case KindTutorial:
		params.Buttons = c.tutorialButtons(feature, spec.TutorialID, canSnooze)
	case KindCustomAction:
		params.Buttons = c.customActionButtons(feature, spec)
	case KindToast, KindUnspecified, KindLegacy:
		// No buttons.
	}
	return params
}

func (c *Controller) snoozeButtons(feature FeatureID, canSnooze bool) []bubble.ButtonParams {
	var buttons []bubble.ButtonParams
	if canSnooze {
		buttons = append(buttons, bubble.ButtonParams{
			Text:    "Remind me later",
			OnPress: func() { c.onSnoozed(feature) },
		})
	}
	buttons = append(buttons, bubble.ButtonParams{
		Text:      "Got it",
		IsDefault: true,
		OnPress:   func() { c.onDismissed(feature, true) },
	})
	return buttons
}

func (c *Controller) tutorialButtons(feature FeatureID, tutorialID string, canSnooze bool) []bubble.ButtonParams {
	dismiss := bubble.ButtonParams{
		Text:    "Dismiss",
		OnPress: func() { c.onTutorialBubbleDismissed(feature, tutorialID) },
	}
	if canSnooze {
		dismiss = bubble.ButtonParams{
			Text:    "Remind me later",
			OnPress: func() { c.onTutorialBubbleSnoozed(feature, tutorialID) },
		}
	}
	return []bubble.ButtonParams{
		dismiss,
		{
			Text:      "Show tutorial",
			IsDefault: true,
			OnPress:   func() { c.onTutorialStarted(feature, tutorialID) },
		},
	}
}

func (c *Controller) customActionButtons(feature FeatureID, spec *Specification) []bubble.ButtonParams {
	action := spec.CustomAction
	dismissText := spec.CustomActionDismissText
	if dismissText == "" {
		dismissText = "Dismiss"
	}
	return []bubble.ButtonParams{
		{
			Text:      spec.CustomActionCaption,
			IsDefault: spec.CustomActionIsDefault,
			OnPress:   func() { c.onCustomAction(feature, action) },
		},
		{
			Text:      dismissText,
			IsDefault: !spec.CustomActionIsDefault,
			OnPress:   func() { c.onDismissed(feature, true) },
		},
	}
}

func (c *Controller) recordPromoNotShown(feature FeatureID, r Result) {
	observability.PromosNotShown.WithLabelValues(string(feature), r.String()).Inc()
	c.log.Debug().
		Str("feature", string(feature)).
		Str("result", r.String()).
		Msg("promo not shown")
}

// programmerError flags a caller bug: fatal under strict mode, logged and
// no-opped otherwise.
func (c *Controller) programmerError(msg string) {
	if c.strict {
		panic("promo: " + msg)
	}
	c.log.Error().Msg(msg)
}
