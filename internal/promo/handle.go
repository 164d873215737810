package promo

// Handle keeps a promo logically alive after its bubble has closed. Claiming
// further references with Ref lets several collaborators (a tutorial, the
// anchored UI) share the session; the promo finalizes when the last holder
// releases.
type Handle struct {
	shared   *handleShared
	released bool
}

type handleShared struct {
	controller *Controller
	feature    FeatureID
	refs       int
	finished   bool
}

func newHandle(c *Controller, feature FeatureID) *Handle {
	return &Handle{shared: &handleShared{controller: c, feature: feature, refs: 1}}
}

// Valid reports whether this handle still holds a reference.
func (h *Handle) Valid() bool {
	return h != nil && !h.released && h.shared != nil
}

// Feature returns the feature this handle continues, or "" for an invalid
// handle.
func (h *Handle) Feature() FeatureID {
	if !h.Valid() {
		return ""
	}
	return h.shared.feature
}

// Ref claims an additional reference to the continued promo.
func (h *Handle) Ref() *Handle {
	if !h.Valid() {
		return &Handle{released: true}
	}
	h.shared.refs++
	return &Handle{shared: h.shared}
}

// Release drops this handle's reference. Releasing the last reference moves
// the continued promo to Ended. Safe to call repeatedly.
func (h *Handle) Release() {
	if !h.Valid() {
		return
	}
	h.released = true
	h.shared.refs--
	if h.shared.refs > 0 || h.shared.finished {
		return
	}
	h.shared.finished = true
	h.shared.controller.finishContinuedPromo(h.shared.feature, true)
}

// invalidate detaches every outstanding reference without finalizing; used
// when the controller already finished the promo through another path.
func (h *Handle) invalidate() {
	if h == nil || h.shared == nil {
		return
	}
	h.shared.finished = true
}
