package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapFormatsMessage(t *testing.T) {
	err := Wrap(CodeFAQError, "lookup failed", fmt.Errorf("boom"))
	require.EqualError(t, err, "lookup failed: boom")

	bare := Wrap(CodeInvalidInput, "question cannot be empty", nil)
	require.EqualError(t, bare, "question cannot be empty")
}

func TestIsCodeFollowsWrappedChain(t *testing.T) {
	err := fmt.Errorf("handler: %w", Wrap(CodeInvalidInput, "bad", nil))
	require.True(t, IsCode(err, CodeInvalidInput))
	require.False(t, IsCode(err, CodeFAQError))
	require.Equal(t, "", CodeOf(fmt.Errorf("plain")))
}
