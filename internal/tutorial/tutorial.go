// Package tutorial runs the multi-step walkthroughs that tutorial promos
// hand off to. Step rendering belongs to the host; the service tracks
// progress and completion only.
package tutorial

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"promo-engine/internal/bubble"
	"promo-engine/internal/observability"
)

// Step is one stop in a tutorial, anchored like a promo bubble.
type Step struct {
	Title  string
	Body   string
	Anchor bubble.ElementID
}

// Service implements promo.TutorialService. One tutorial runs at a time;
// starting a second aborts the first.
type Service struct {
	tutorials map[string][]Step

	runningID  string
	stepIndex  int
	onComplete func()
	onAbort    func()
}

func NewService() *Service {
	return &Service{tutorials: map[string][]Step{}}
}

func (s *Service) Register(id string, steps []Step) error {
	if id == "" || len(steps) == 0 {
		return fmt.Errorf("tutorial %q: id and at least one step required", id)
	}
	if _, ok := s.tutorials[id]; ok {
		return fmt.Errorf("tutorial %q: already registered", id)
	}
	s.tutorials[id] = steps
	return nil
}

// StartTutorial begins id at its first step. Unknown tutorials abort
// immediately via onAbort.
func (s *Service) StartTutorial(id string, onComplete, onAbort func()) {
	if s.runningID != "" {
		s.Abort()
	}
	if _, ok := s.tutorials[id]; !ok {
		log.Error().Str("tutorial", id).Msg("unknown tutorial")
		if onAbort != nil {
			onAbort()
		}
		return
	}
	s.runningID = id
	s.stepIndex = 0
	s.onComplete = onComplete
	s.onAbort = onAbort
	observability.TutorialStarts.WithLabelValues(id).Inc()
	log.Info().Str("tutorial", id).Msg("tutorial started")
}

func (s *Service) IsRunning() bool { return s.runningID != "" }

// CurrentStep returns the active step, or false when nothing runs.
func (s *Service) CurrentStep() (Step, bool) {
	if s.runningID == "" {
		return Step{}, false
	}
	return s.tutorials[s.runningID][s.stepIndex], true
}

// Advance moves to the next step; past the last step the tutorial completes.
func (s *Service) Advance() {
	if s.runningID == "" {
		return
	}
	s.stepIndex++
	if s.stepIndex < len(s.tutorials[s.runningID]) {
		return
	}
	done := s.onComplete
	s.reset()
	if done != nil {
		done()
	}
}

// Abort cancels the running tutorial, if any.
func (s *Service) Abort() {
	if s.runningID == "" {
		return
	}
	aborted := s.onAbort
	s.reset()
	if aborted != nil {
		aborted()
	}
}

// LogPromoLinkClicked records whether the promo's tutorial link converted.
func (s *Service) LogPromoLinkClicked(id string, started bool) {
	log.Debug().Str("tutorial", id).Bool("started", started).Msg("promo tutorial link")
}

func (s *Service) reset() {
	s.runningID = ""
	s.stepIndex = 0
	s.onComplete = nil
	s.onAbort = nil
}
