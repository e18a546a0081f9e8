package bus

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/zengest/platform/internal/observability"
	"github.com/zengest/platform/pkg/util"
)

func TestRequestAgainstUnreachableBusFailsClosedAndCounts(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	metrics := observability.NewMetrics()
	client := NewClient(rdb, 250*time.Millisecond, metrics)

	_, err := client.Request(context.Background(), SubjectVerify, map[string]string{"accessToken": "x"})
	require.Error(t, err)
	require.True(t, util.IsCode(err, util.CodeTimeout))

	require.Equal(t, int64(1), metrics.BusCalls()[SubjectVerify+"|timeout"])
}
