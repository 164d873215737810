package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		spec    Specification
		wantErr bool
	}{
		{"valid toast", Specification{Feature: "f", Kind: KindToast, Anchor: "a"}, false},
		{"missing feature", Specification{Kind: KindToast, Anchor: "a"}, true},
		{"missing anchor", Specification{Feature: "f", Kind: KindToast}, true},
		{"tutorial without id", Specification{Feature: "f", Kind: KindTutorial, Anchor: "a"}, true},
		{"custom action without callback", Specification{Feature: "f", Kind: KindCustomAction, Anchor: "a",
			CustomActionCaption: "Go"}, true},
		{"custom action without caption", Specification{Feature: "f", Kind: KindCustomAction, Anchor: "a",
			CustomAction: func(*Handle) {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry()
	spec := Specification{Feature: "f", Kind: KindToast, Anchor: "a"}
	require.NoError(t, r.Register(spec))
	assert.Error(t, r.Register(spec))
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Specification{Feature: "f", Kind: KindToast, Anchor: "a"}))

	assert.NotNil(t, r.Lookup("f"))
	assert.True(t, r.Registered("f"))
	assert.Nil(t, r.Lookup("g"))
	assert.False(t, r.Registered("g"))
}

func TestFormatTemplate(t *testing.T) {
	assert.Equal(t, "plain", formatTemplate("plain", nil))
	assert.Equal(t, "count %d", formatTemplate("count %d", nil), "no args leaves verbs alone")
	assert.Equal(t, "count 3", formatTemplate("count %d", []any{3}))
	assert.Equal(t, "", formatTemplate("", []any{1}))
}
