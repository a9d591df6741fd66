package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"not authenticated", ErrNotAuthenticated, KindNotAuthenticated},
		{"wrapped forbidden", fmt.Errorf("delete post: %w", ErrForbidden), KindForbidden},
		{"typed not found", NotFound("post"), KindNotFound},
		{"validation", Validation("between requires value2"), KindValidation},
		{"backend", Backend("posts.find", errors.New("pq: relation missing")), KindBackend},
		{"plain", errors.New("boom"), KindBackend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestBackendKeepsCause(t *testing.T) {
	cause := errors.New("unique constraint violated")
	err := Backend("banners.create", cause)
	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Backend("noop", nil))
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("comment")
	assert.Equal(t, "comment not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicMessage(t *testing.T) {
	msg, ok := PublicMessage(fmt.Errorf("update post: %w", Validation("title is required")))
	assert.True(t, ok)
	assert.Equal(t, "title is required", msg)

	msg, ok = PublicMessage(NotFound("banner"))
	assert.True(t, ok)
	assert.Equal(t, "banner not found", msg)

	_, ok = PublicMessage(Backend("select", errors.New("connection refused")))
	assert.False(t, ok)
}
