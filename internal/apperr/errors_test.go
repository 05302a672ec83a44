package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := State("handover %s is not pending", "h-1")

	assert.True(t, errors.Is(err, ErrState))
	assert.False(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("accept: %w", err)
	assert.True(t, errors.Is(wrapped, ErrState))
	assert.Equal(t, KindState, KindOf(wrapped))
	assert.Equal(t, "handover h-1 is not pending", MessageOf(wrapped))
}

func TestTransportUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Transport(cause, "error listing entries")

	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "error listing entries: connection refused", err.Error())
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindTransport, KindOf(errors.New("boom")))
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
}
