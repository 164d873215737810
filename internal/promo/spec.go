package promo

import (
	"fmt"
	"time"

	"promo-engine/internal/bubble"
)

// Kind selects the bubble's button set and follow-up behavior. The set is
// closed; button construction switches exhaustively over it.
type Kind int

const (
	KindUnspecified Kind = iota
	KindToast
	KindSnooze
	KindTutorial
	KindCustomAction
	// KindLegacy is grandfathered promos with no buttons and no gating
	// beyond the tracker.
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindToast:
		return "toast"
	case KindSnooze:
		return "snooze"
	case KindTutorial:
		return "tutorial"
	case KindCustomAction:
		return "custom_action"
	case KindLegacy:
		return "legacy"
	}
	return "unspecified"
}

// Subtype classifies a promo for priority and history purposes.
type Subtype int

const (
	SubtypeNormal Subtype = iota
	// SubtypeKeyedNotice promos show once per key (e.g. per app) instead
	// of once overall.
	SubtypeKeyedNotice
	// SubtypeLegalNotice promos run in the normal queue at high priority.
	SubtypeLegalNotice
)

func (s Subtype) String() string {
	switch s {
	case SubtypeKeyedNotice:
		return "keyed_notice"
	case SubtypeLegalNotice:
		return "legal_notice"
	}
	return "normal"
}

// Specification is the registered, read-only description of one promo type.
type Specification struct {
	Feature FeatureID
	Kind    Kind
	Subtype Subtype

	// Anchor is the lookup key for the UI element the bubble attaches to.
	Anchor bubble.ElementID

	// Body and Title are fmt templates filled from the request's args.
	Body  string
	Title string

	// Timeout of zero means the engine's default auto-dismiss applies;
	// negative disables auto-dismiss.
	Timeout time.Duration

	// Snooze policy, meaningful for KindSnooze and KindTutorial.
	MaxSnoozeCount int
	SnoozeDuration time.Duration

	// MaxShowCount of zero means unlimited.
	MaxShowCount int

	// Tutorial hookup, required for KindTutorial.
	TutorialID string

	// Custom action hookup, required for KindCustomAction. The callback
	// receives the continuation handle for the promo it closed.
	CustomActionCaption     string
	CustomActionIsDefault   bool
	CustomActionDismissText string
	CustomAction            func(*Handle)
}

func (s *Specification) validate() error {
	if s.Feature == "" {
		return fmt.Errorf("promo spec: feature id required")
	}
	if s.Anchor == "" {
		return fmt.Errorf("promo spec %q: anchor required", s.Feature)
	}
	switch s.Kind {
	case KindTutorial:
		if s.TutorialID == "" {
			return fmt.Errorf("promo spec %q: tutorial id required", s.Feature)
		}
	case KindCustomAction:
		if s.CustomAction == nil {
			return fmt.Errorf("promo spec %q: custom action callback required", s.Feature)
		}
		if s.CustomActionCaption == "" {
			return fmt.Errorf("promo spec %q: custom action caption required", s.Feature)
		}
	}
	return nil
}

// Registry holds every registered specification, keyed by feature.
// Registration happens at startup on the host goroutine; lookups are
// read-only afterwards.
type Registry struct {
	specs map[FeatureID]*Specification
}

func NewRegistry() *Registry {
	return &Registry{specs: map[FeatureID]*Specification{}}
}

func (r *Registry) Register(spec Specification) error {
	if err := spec.validate(); err != nil {
		return err
	}
	if _, ok := r.specs[spec.Feature]; ok {
		return fmt.Errorf("promo spec %q: already registered", spec.Feature)
	}
	r.specs[spec.Feature] = &spec
	return nil
}

// Lookup returns the specification for feature, or nil if unregistered.
func (r *Registry) Lookup(feature FeatureID) *Specification {
	return r.specs[feature]
}

func (r *Registry) Registered(feature FeatureID) bool {
	_, ok := r.specs[feature]
	return ok
}

// Features lists registered feature ids; order is unspecified.
func (r *Registry) Features() []FeatureID {
	out := make([]FeatureID, 0, len(r.specs))
	for f := range r.specs {
		out = append(out, f)
	}
	return out
}

// formatTemplate fills a body/title template. Templates without verbs pass
// through untouched so plain strings never gain fmt noise.
func formatTemplate(tmpl string, args []any) string {
	if tmpl == "" || len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
