package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithLoggerAndFromContext(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)

	FromContext(ctx).Info().Msg("carried")
	assert.True(t, tl.Contains("carried"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil context fallback is the point
}

func TestWithLoggerNilUsesDefault(t *testing.T) {
	ctx := WithLogger(context.Background(), nil)
	assert.Equal(t, Default(), FromContext(ctx))
}

func TestWithSourceAddsField(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithSource(ctx, "addressbook")

	FromContext(ctx).Info().Msg("tagged")
	assert.True(t, tl.Contains(`"source":"addressbook"`))
}

func TestWithOperationAddsField(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithOperation(ctx, "merge")

	FromContext(ctx).Info().Msg("tagged")
	assert.True(t, tl.Contains(`"operation":"merge"`))
}
