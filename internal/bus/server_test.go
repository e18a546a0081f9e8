package bus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/observability"
	"github.com/zengest/platform/pkg/util"
)

func newDispatchServer(metrics *observability.Metrics) *Server {
	return NewServer(nil, zap.NewNop(), metrics, config.BusConfig{HandlerTimeoutSeconds: 1})
}

func TestDispatchCountsOutcomesPerSubject(t *testing.T) {
	metrics := observability.NewMetrics()
	srv := newDispatchServer(metrics)

	ok := func(ctx context.Context, data json.RawMessage) (any, error) {
		return map[string]bool{"ok": true}, nil
	}
	fail := func(ctx context.Context, data json.RawMessage) (any, error) {
		return nil, util.NewInvalidCredentials()
	}

	// Empty ReplyTo: the reply is dropped, so no Redis round-trip happens.
	srv.dispatch(SubjectLogin, ok, requestEnvelope{ID: "c1"})
	srv.dispatch(SubjectLogin, ok, requestEnvelope{ID: "c2"})
	srv.dispatch(SubjectLogin, fail, requestEnvelope{ID: "c3"})
	srv.dispatch(SubjectVerify, ok, requestEnvelope{ID: "c4"})

	calls := metrics.BusCalls()
	require.Equal(t, int64(2), calls[SubjectLogin+"|ok"])
	require.Equal(t, int64(1), calls[SubjectLogin+"|error"])
	require.Equal(t, int64(1), calls[SubjectVerify+"|ok"])
}

func TestDispatchWithoutMetricsIsSafe(t *testing.T) {
	srv := newDispatchServer(nil)

	srv.dispatch(SubjectLogout, func(ctx context.Context, data json.RawMessage) (any, error) {
		return nil, nil
	}, requestEnvelope{ID: "c1"})
}
