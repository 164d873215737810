package bubble

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Factory creates bubbles and tracks every bubble currently open, across all
// owners. Like the resolver it runs on the host's UI goroutine only.
type Factory struct {
	open []*Bubble
}

func NewFactory() *Factory { return &Factory{} }

// Create materializes a bubble attached to anchor. Returns nil when the
// anchor is missing or hidden; callers must treat nil as creation failure.
func (f *Factory) Create(anchor *Element, params Params) *Bubble {
	if anchor == nil || !anchor.Visible() {
		log.Debug().Msg("bubble creation refused: no visible anchor")
		return nil
	}
	b := &Bubble{id: uuid.New(), anchor: anchor, params: params, open: true}
	f.open = append(f.open, b)
	b.AddOnClose(f.forget)
	log.Debug().
		Str("bubble", b.id.String()).
		Str("anchor", string(anchor.ID())).
		Msg("bubble created")
	return b
}

// AnyBubbleShowing reports whether any bubble at all is open, including ones
// not created on behalf of the promo controller.
func (f *Factory) AnyBubbleShowing() bool { return len(f.open) > 0 }

// BubbleIn returns the open bubble in the given context, if there is one.
func (f *Factory) BubbleIn(ctx ContextID) *Bubble {
	for _, b := range f.open {
		if b.Context() == ctx {
			return b
		}
	}
	return nil
}

func (f *Factory) forget(closed *Bubble, _ CloseReason) {
	for i, b := range f.open {
		if b == closed {
			f.open = append(f.open[:i], f.open[i+1:]...)
			return
		}
	}
}
