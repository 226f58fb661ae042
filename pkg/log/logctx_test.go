package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты меняют slog.Default(), поэтому не используют t.Parallel().

func newSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFrom_DefaultWhenEmpty(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	require.Equal(t, def, From(context.Background()))
}

func TestIntoFrom_RoundTrip_And_Shadowing(t *testing.T) {
	parentL := newSilent()
	childL := newSilent()

	parent := Into(context.Background(), parentL)
	child := Into(parent, childL)

	require.Equal(t, parentL, From(parent))
	require.Equal(t, childL, From(child))
}

func TestFrom_IgnoresForeignValues(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
	def := newSilent()
	slog.SetDefault(def)

	ctx := context.WithValue(context.Background(), ctxKey{}, "not-a-logger")
	require.Equal(t, def, From(ctx))

	var nilLogger *slog.Logger
	ctx = context.WithValue(context.Background(), ctxKey{}, nilLogger)
	require.Equal(t, def, From(ctx))
}

func TestWith_AddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := With(Into(context.Background(), base), "post_id", int64(7))
	From(ctx).Info("probe")

	require.Contains(t, buf.String(), "post_id=7")
	require.Contains(t, buf.String(), "msg=probe")
}

func TestInto_KeepsDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	child := Into(parent, newSilent())

	pdl, _ := parent.Deadline()
	cdl, ok := child.Deadline()
	require.True(t, ok)
	require.Equal(t, pdl, cdl)

	<-child.Done()
	require.ErrorIs(t, child.Err(), context.DeadlineExceeded)
}
