package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/model"
)

// AuditSink persists login events. *repository.AuditRepository satisfies it.
type AuditSink interface {
	RecordLogin(ctx context.Context, e model.LoginEvent) error
}

// LoginAuditWorker consumes the login audit queue and writes each event to
// PostgreSQL, off the login request path.
type LoginAuditWorker struct {
	rdb        *redis.Client
	sink       AuditSink
	log        zerolog.Logger
	queue      string
	retryDelay time.Duration
}

// NewLoginAuditWorker creates a new LoginAuditWorker.
func NewLoginAuditWorker(rdb *redis.Client, sink AuditSink, log zerolog.Logger) *LoginAuditWorker {
	return &LoginAuditWorker{
		rdb:        rdb,
		sink:       sink,
		log:        log.With().Str("component", "login_audit_worker").Logger(),
		queue:      config.CacheKey.LoginAuditQueue(),
		retryDelay: 5 * time.Second,
	}
}

// Enqueue schedules e for persistence.
func (w *LoginAuditWorker) Enqueue(ctx context.Context, e model.LoginEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return w.rdb.RPush(ctx, w.queue, payload).Err()
}

// Start begins the worker loop and returns once ctx is done and the queue
// has been drained. Call in a goroutine.
func (w *LoginAuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *LoginAuditWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, w.queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if err := w.persist(ctx, result[1]); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying")
		// Push back to queue for retry.
		w.rdb.RPush(context.Background(), w.queue, result[1])
		select {
		case <-time.After(w.retryDelay):
		case <-ctx.Done():
		}
	}
}

// persist drops undecodable payloads; retrying them can never succeed.
func (w *LoginAuditWorker) persist(ctx context.Context, raw string) error {
	var e model.LoginEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping event")
		return nil
	}
	return w.sink.RecordLogin(ctx, e)
}

// drain processes all remaining items in the queue before shutdown.
func (w *LoginAuditWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}

		if err := w.persist(ctx, raw); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, w.queue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
