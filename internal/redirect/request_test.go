package redirect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mvc-redirect/internal/common/errors"
	"mvc-redirect/internal/common/validation"
)

func TestFromArgs(t *testing.T) {
	errs := validation.NewValidator()

	tests := []struct {
		name string
		args map[string]any
		want Request
	}{
		{
			name: "uri wins",
			args: map[string]any{"uri": "/a", "url": "http://b", "action": "show"},
			want: ByURI{URI: "/a"},
		},
		{
			name: "empty uri still wins",
			args: map[string]any{"uri": "", "url": "http://b"},
			want: ByURI{},
		},
		{
			name: "nil uri is ignored",
			args: map[string]any{"uri": nil, "url": "http://b"},
			want: ByURL{URL: "http://b"},
		},
		{
			name: "url over action",
			args: map[string]any{"url": "http://b", "controller": "orders", "errors": errs},
			want: ByURL{URL: "http://b", Errors: errs},
		},
		{
			name: "action form",
			args: map[string]any{
				"controller": "orders",
				"action":     "show",
				"id":         3,
				"fragment":   "top",
				"params":     map[string]any{"q": "x"},
			},
			want: ByAction{
				Controller: "orders",
				Action:     "show",
				ID:         3,
				Fragment:   "top",
				Params:     map[string]any{"q": "x"},
			},
		},
		{
			name: "string params copied",
			args: map[string]any{"action": "list", "params": map[string]string{"page": "2"}},
			want: ByAction{Action: "list", Params: map[string]any{"page": "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromArgs_Invalid(t *testing.T) {
	for _, args := range []map[string]any{
		nil,
		{},
		{"params": []string{"a"}},
		{"uri": "/a", "errors": "nope"},
	} {
		_, err := FromArgs(args)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidInvocation))
	}
}
