package bus

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/observability"
	"github.com/zengest/platform/pkg/util"
)

// replyTTL caps how long an unclaimed reply lingers when the caller has
// already given up waiting.
const replyTTL = 30 * time.Second

// HandlerFunc processes one request payload and returns the reply body.
type HandlerFunc func(ctx context.Context, data json.RawMessage) (any, error)

// Server consumes subject queues and dispatches to registered handlers.
// Each handler invocation runs under its own detached timeout context: an
// abandoned caller cannot cancel a store mutation mid-flight, so a rotation
// either fully completes or never starts.
type Server struct {
	rdb            *redis.Client
	logger         *zap.Logger
	metrics        *observability.Metrics
	workers        int
	handlerTimeout time.Duration

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	wg       sync.WaitGroup
}

// NewServer builds a server from the bus configuration. metrics may be nil.
func NewServer(rdb *redis.Client, logger *zap.Logger, metrics *observability.Metrics, cfg config.BusConfig) *Server {
	workers := cfg.WorkersPerSubject
	if workers <= 0 {
		workers = 1
	}
	return &Server{
		rdb:            rdb,
		logger:         logger,
		metrics:        metrics,
		workers:        workers,
		handlerTimeout: cfg.HandlerTimeout(),
		handlers:       make(map[string]HandlerFunc),
	}
}

// Handle registers a handler for a subject. Must be called before Start.
func (s *Server) Handle(subject string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[subject] = fn
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for subject, fn := range s.handlers {
		for i := 0; i < s.workers; i++ {
			s.wg.Add(1)
			go s.consume(ctx, subject, fn)
		}
	}
}

// Wait blocks until all workers have exited.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) consume(ctx context.Context, subject string, fn HandlerFunc) {
	defer s.wg.Done()
	queue := queueKey(subject)

	for {
		res, err := s.rdb.BLPop(ctx, 0, queue).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("bus pop failed", zap.String("subject", subject), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if len(res) != 2 {
			continue
		}

		var req requestEnvelope
		if err := json.Unmarshal([]byte(res[1]), &req); err != nil {
			s.logger.Warn("bus request malformed", zap.String("subject", subject), zap.Error(err))
			continue
		}
		s.dispatch(subject, fn, req)
	}
}

func (s *Server) dispatch(subject string, fn HandlerFunc, req requestEnvelope) {
	// Detached from the consumer context: once a request is picked up, the
	// handler runs to completion under its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), s.handlerTimeout)
	defer cancel()

	reply := replyEnvelope{ID: req.ID}
	result, err := fn(ctx, req.Data)
	if err != nil {
		s.metrics.RecordBusCall(subject, outcomeError)
		domainErr := util.ToDomainError(err)
		if domainErr.Code == util.CodeInternal {
			s.logger.Error("bus handler failed", zap.String("subject", subject), zap.Error(err))
		}
		reply.Error = &replyError{Code: domainErr.Code, Message: domainErr.Message}
	} else {
		data, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("bus reply marshal failed", zap.String("subject", subject), zap.Error(err))
			s.metrics.RecordBusCall(subject, outcomeError)
			reply.Error = &replyError{Code: util.CodeInternal, Message: "internal server error"}
		} else {
			s.metrics.RecordBusCall(subject, outcomeOK)
			reply.Data = data
		}
	}

	raw, err := json.Marshal(reply)
	if err != nil {
		s.logger.Error("bus reply envelope marshal failed", zap.String("subject", subject), zap.Error(err))
		return
	}

	if req.ReplyTo == "" {
		return
	}
	pipe := s.rdb.Pipeline()
	pipe.LPush(ctx, req.ReplyTo, raw)
	pipe.Expire(ctx, req.ReplyTo, replyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("bus reply push failed", zap.String("subject", subject), zap.Error(err))
	}
}
