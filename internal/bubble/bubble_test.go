package bubble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	r := NewResolver()
	main := NewElement("toolbar", "main")
	popup := NewElement("toolbar", "popup")
	r.Register(main)
	r.Register(popup)

	assert.Same(t, main, r.Resolve("toolbar", "main"))
	assert.Same(t, popup, r.Resolve("toolbar", "popup"))
	assert.Same(t, main, r.Resolve("toolbar", ""), "empty context matches any")
	assert.Nil(t, r.Resolve("toolbar", "other"))
	assert.Nil(t, r.Resolve("missing", "main"))

	// Hidden elements never resolve, but Find still sees them.
	main.Hide()
	assert.Same(t, popup, r.Resolve("toolbar", ""))
	assert.Nil(t, r.Resolve("toolbar", "main"))
	assert.Same(t, main, r.Find("toolbar"))

	r.Unregister(main)
	assert.Same(t, popup, r.Find("toolbar"))
	r.Unregister(popup)
	assert.Nil(t, r.Find("toolbar"))
}

func TestRect_Intersects(t *testing.T) {
	base := Rect{X: 10, Y: 10, W: 20, H: 20}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{X: 20, Y: 20, W: 20, H: 20}, true},
		{"contained", Rect{X: 15, Y: 15, W: 2, H: 2}, true},
		{"touching edge", Rect{X: 30, Y: 10, W: 5, H: 5}, false},
		{"disjoint", Rect{X: 100, Y: 100, W: 5, H: 5}, false},
		{"empty", Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(base))
		})
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()
	anchor := NewElement("a", "main")

	b := f.Create(anchor, Params{Body: "hi"})
	require.NotNil(t, b)
	assert.True(t, b.IsOpen())
	assert.True(t, f.AnyBubbleShowing())
	assert.Same(t, b, f.BubbleIn("main"))
	assert.Nil(t, f.BubbleIn("popup"))

	b.Close(ClosedProgrammatically)
	assert.False(t, f.AnyBubbleShowing())

	anchor.Hide()
	assert.Nil(t, f.Create(anchor, Params{}), "hidden anchor refuses creation")
	assert.Nil(t, f.Create(nil, Params{}))
}

func TestBubble_CloseIdempotent(t *testing.T) {
	f := NewFactory()
	b := f.Create(NewElement("a", "main"), Params{})
	require.NotNil(t, b)

	var reasons []CloseReason
	b.AddOnClose(func(_ *Bubble, r CloseReason) { reasons = append(reasons, r) })

	b.Close(ClosedByUser)
	b.Close(ClosedProgrammatically)
	assert.Equal(t, []CloseReason{ClosedByUser}, reasons)
}

func TestBubble_Dismiss(t *testing.T) {
	f := NewFactory()
	dismissed := false
	b := f.Create(NewElement("a", "main"), Params{
		OnDismiss: func() { dismissed = true },
	})
	require.NotNil(t, b)

	var reason CloseReason
	b.AddOnClose(func(_ *Bubble, r CloseReason) { reason = r })
	b.Dismiss()

	assert.True(t, dismissed)
	assert.Equal(t, ClosedByUser, reason)
	b.Dismiss() // closed; no effect
	assert.True(t, dismissed)
}

func TestBubble_Timeout(t *testing.T) {
	f := NewFactory()

	// Without a timeout configured, FireTimeout is inert.
	b := f.Create(NewElement("a", "main"), Params{})
	b.FireTimeout()
	assert.True(t, b.IsOpen())

	fired := false
	b = f.Create(NewElement("a", "main"), Params{
		Timeout:   5 * time.Second,
		OnTimeout: func() { fired = true },
	})
	b.FireTimeout()
	assert.True(t, fired)
	assert.False(t, b.IsOpen())
}

func TestBubble_PressButton(t *testing.T) {
	f := NewFactory()
	pressed := ""
	b := f.Create(NewElement("a", "main"), Params{
		Buttons: []ButtonParams{
			{Text: "one", OnPress: func() { pressed = "one" }},
			{Text: "two", OnPress: func() { pressed = "two" }},
		},
	})
	require.NotNil(t, b)

	b.PressButton(5) // out of range
	assert.Empty(t, pressed)

	b.PressButton(1)
	assert.Equal(t, "two", pressed)
	assert.True(t, b.IsOpen(), "buttons decide themselves whether to close")

	b.Close(ClosedProgrammatically)
	b.PressButton(0)
	assert.Equal(t, "two", pressed, "closed bubble ignores presses")
}
