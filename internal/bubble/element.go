package bubble

// ElementID identifies a kind of UI element a bubble can anchor to.
type ElementID string

// ContextID identifies the window/surface an element lives in.
type ContextID string

// Rect is an axis-aligned screen region in logical pixels.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Element is a tracked UI element. The host application registers elements
// as they appear and unregisters them as they go away; promos anchor to them.
type Element struct {
	id      ElementID
	context ContextID
	bounds  Rect
	visible bool
}

func NewElement(id ElementID, ctx ContextID) *Element {
	return &Element{id: id, context: ctx, visible: true}
}

func (e *Element) ID() ElementID      { return e.id }
func (e *Element) Context() ContextID { return e.context }
func (e *Element) Visible() bool      { return e.visible }
func (e *Element) Bounds() Rect       { return e.bounds }

func (e *Element) SetBounds(r Rect) { e.bounds = r }
func (e *Element) Show()            { e.visible = true }
func (e *Element) Hide()            { e.visible = false }

// Resolver maps anchor identifiers to live elements. All methods run on the
// host's UI goroutine; the resolver is not safe for concurrent use.
type Resolver struct {
	elements map[ElementID][]*Element
}

func NewResolver() *Resolver {
	return &Resolver{elements: map[ElementID][]*Element{}}
}

func (r *Resolver) Register(e *Element) {
	r.elements[e.id] = append(r.elements[e.id], e)
}

func (r *Resolver) Unregister(e *Element) {
	list := r.elements[e.id]
	for i, el := range list {
		if el == e {
			r.elements[e.id] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Find returns the first element registered under id, visible or not.
func (r *Resolver) Find(id ElementID) *Element {
	if list := r.elements[id]; len(list) > 0 {
		return list[0]
	}
	return nil
}

// Resolve returns the first visible element with the given id in ctx, or the
// first visible element with the id in any context when ctx is empty. Hidden
// elements never resolve; an anchor that cannot be resolved blocks the promo.
func (r *Resolver) Resolve(id ElementID, ctx ContextID) *Element {
	for _, e := range r.elements[id] {
		if !e.visible {
			continue
		}
		if ctx == "" || e.context == ctx {
			return e
		}
	}
	return nil
}
