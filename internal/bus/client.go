package bus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/zengest/platform/internal/observability"
	"github.com/zengest/platform/pkg/util"
)

// Request outcomes recorded per subject.
const (
	outcomeOK       = "ok"
	outcomeTimeout  = "timeout"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Client issues request/reply calls over Redis lists. The caller publishes
// an envelope with a correlation id, then blocks on a single-use reply list
// until the correlated reply arrives or the deadline expires. A timeout or
// transport error is returned as a typed error and must be treated by
// callers exactly like an explicit rejection. The client never retries.
type Client struct {
	rdb     *redis.Client
	timeout time.Duration
	metrics *observability.Metrics
}

// NewClient builds a client with the given per-call deadline. metrics may
// be nil.
func NewClient(rdb *redis.Client, timeout time.Duration, metrics *observability.Metrics) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{rdb: rdb, timeout: timeout, metrics: metrics}
}

// Request sends payload to subject and waits for the correlated reply.
// A reply carrying a domain error code is rebuilt into the matching
// DomainError so failures cross the process boundary losslessly.
func (c *Client) Request(ctx context.Context, subject string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	id := uuid.NewString()
	env := requestEnvelope{ID: id, ReplyTo: replyKey(id), Data: data}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rdb.LPush(ctx, queueKey(subject), raw).Err(); err != nil {
		c.metrics.RecordBusCall(subject, outcomeTimeout)
		return nil, util.NewTimeout(subject)
	}

	res, err := c.rdb.BLPop(ctx, c.timeout, env.ReplyTo).Result()
	if err != nil {
		// redis.Nil, deadline exceeded, transport failure: all of them are
		// absence of proof, so all of them are refusals.
		c.metrics.RecordBusCall(subject, outcomeTimeout)
		return nil, util.NewTimeout(subject)
	}
	// BLPop returns [key, value].
	if len(res) != 2 {
		c.metrics.RecordBusCall(subject, outcomeTimeout)
		return nil, util.NewTimeout(subject)
	}

	var reply replyEnvelope
	if err := json.Unmarshal([]byte(res[1]), &reply); err != nil {
		c.metrics.RecordBusCall(subject, outcomeTimeout)
		return nil, util.NewTimeout(subject)
	}
	if reply.ID != id {
		c.metrics.RecordBusCall(subject, outcomeTimeout)
		return nil, util.NewTimeout(subject)
	}
	if reply.Error != nil {
		c.metrics.RecordBusCall(subject, outcomeRejected)
		return nil, util.FromCode(reply.Error.Code, reply.Error.Message)
	}
	c.metrics.RecordBusCall(subject, outcomeOK)
	return reply.Data, nil
}

// RequestInto unmarshals a successful reply into out.
func (c *Client) RequestInto(ctx context.Context, subject string, payload, out any) error {
	data, err := c.Request(ctx, subject, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}
