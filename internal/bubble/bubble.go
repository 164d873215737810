// Package bubble provides the help-bubble surface the promo engine drives:
// anchored UI elements, bubble parameters, live bubble instances and the
// factory that owns them. Rendering is the host's concern; bubbles here track
// state, buttons and close routing only.
package bubble

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CloseReason says why a bubble went away.
type CloseReason int

const (
	// ClosedProgrammatically is a close requested by owning code (promo
	// ended, preemption, shutdown).
	ClosedProgrammatically CloseReason = iota
	// ClosedByUser is the close button or an escape press.
	ClosedByUser
	// ClosedOnTimeout is the auto-dismiss timer elapsing.
	ClosedOnTimeout
	// ClosedAnchorHidden is the anchor element disappearing.
	ClosedAnchorHidden
)

func (r CloseReason) String() string {
	switch r {
	case ClosedProgrammatically:
		return "programmatic"
	case ClosedByUser:
		return "user"
	case ClosedOnTimeout:
		return "timeout"
	case ClosedAnchorHidden:
		return "anchor_hidden"
	}
	return "unknown"
}

// ButtonParams describes one action button on a bubble.
type ButtonParams struct {
	Text      string
	IsDefault bool
	OnPress   func()
}

// Params carries everything needed to materialize one bubble.
type Params struct {
	Body  string
	Title string

	// Timeout of zero means the bubble never auto-dismisses.
	Timeout   time.Duration
	OnTimeout func()

	// OnDismiss fires for the close button / escape, not for action buttons.
	OnDismiss func()

	Buttons []ButtonParams
}

// Bubble is one live help bubble. It is owned by the Factory that created it;
// callers hold non-owning references and compare by pointer identity when
// routing callbacks.
type Bubble struct {
	id      uuid.UUID
	anchor  *Element
	params  Params
	open    bool
	onClose []func(*Bubble, CloseReason)
}

func (b *Bubble) ID() uuid.UUID           { return b.id }
func (b *Bubble) IsOpen() bool            { return b.open }
func (b *Bubble) Anchor() *Element        { return b.anchor }
func (b *Bubble) Context() ContextID      { return b.anchor.Context() }
func (b *Bubble) Bounds() Rect            { return b.anchor.Bounds() }
func (b *Bubble) Body() string            { return b.params.Body }
func (b *Bubble) Title() string           { return b.params.Title }
func (b *Bubble) Timeout() time.Duration  { return b.params.Timeout }
func (b *Bubble) Buttons() []ButtonParams { return b.params.Buttons }

// AddOnClose registers a callback fired exactly once when the bubble closes,
// whatever the reason. Callbacks may fire synchronously from within Close.
func (b *Bubble) AddOnClose(cb func(*Bubble, CloseReason)) {
	b.onClose = append(b.onClose, cb)
}

// Close tears the bubble down. Safe to call more than once; only the first
// call has any effect.
func (b *Bubble) Close(reason CloseReason) {
	if !b.open {
		return
	}
	b.open = false
	log.Debug().Str("bubble", b.id.String()).Str("reason", reason.String()).Msg("bubble closed")
	cbs := b.onClose
	b.onClose = nil
	for _, cb := range cbs {
		cb(b, reason)
	}
}

// PressButton simulates the user pressing button i. The press callback runs
// first; buttons decide themselves whether the bubble closes as a result.
func (b *Bubble) PressButton(i int) {
	if !b.open || i < 0 || i >= len(b.params.Buttons) {
		return
	}
	if cb := b.params.Buttons[i].OnPress; cb != nil {
		cb()
	}
}

// Dismiss simulates the close button or an escape press.
func (b *Bubble) Dismiss() {
	if !b.open {
		return
	}
	if b.params.OnDismiss != nil {
		b.params.OnDismiss()
	}
	b.Close(ClosedByUser)
}

// FireTimeout delivers the auto-dismiss timer. The host owns real timers;
// tests and the demo surface call this directly.
func (b *Bubble) FireTimeout() {
	if !b.open || b.params.Timeout == 0 {
		return
	}
	if b.params.OnTimeout != nil {
		b.params.OnTimeout()
	}
	b.Close(ClosedOnTimeout)
}
