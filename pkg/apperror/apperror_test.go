package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasNoCause(t *testing.T) {
	err := New(KindNotFound, "environment.load")
	assert.Nil(t, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "environment.load")
	assert.Contains(t, err.Error(), "not_found")
}

func TestWrapPreservesCauseChain(t *testing.T) {
	cause := errors.New("no such file or directory")
	err := Wrap(KindPersistence, "repository.save", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "repository.save")
	assert.Contains(t, err.Error(), cause.Error())
}

func TestKindOfUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(KindLockContention, "repository.acquire_lock")
	wrapped := fmt.Errorf("acquiring lock: %w", inner)

	assert.Equal(t, KindLockContention, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindLockContention))
}

func TestKindOfDefaultsToInternalForForeignErrors(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestWithTraceIDDoesNotMutateOriginal(t *testing.T) {
	original := New(KindTimeout, "step.wait_ssh")
	withTrace := original.WithTraceID("abc-123")

	assert.Empty(t, original.TraceID)
	assert.Equal(t, "abc-123", withTrace.TraceID)
}

func TestHelpIsNonEmptyForEveryKind(t *testing.T) {
	kinds := []Kind{
		KindConfiguration, KindInvalidStateTransition, KindLockContention,
		KindPersistence, KindExternalTool, KindParse, KindNetwork,
		KindTimeout, KindTemplateRender, KindNotFound, KindInternal,
	}
	for _, k := range kinds {
		err := New(k, "op")
		require.NotEmpty(t, err.Help(), "kind %s", k)
	}
}
