package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Like(EntityComment)
	m.Like(EntityComment)
	m.Like(EntityPost)
	m.View()
	m.Transition(EntityComment, "DELETED")
	m.Inconsistent("service/comments/Like")

	require.InDelta(t, 2, testutil.ToFloat64(m.likes.WithLabelValues("comment")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.likes.WithLabelValues("post")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.views), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.transitions.WithLabelValues("comment", "DELETED")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.inconsistencies.WithLabelValues("service/comments/Like")), 0)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.Like(EntityPost)
		m.View()
		m.Transition(EntityPost, "HIDDEN")
		m.Inconsistent("op")
	})
}
