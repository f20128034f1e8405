package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/service"
)

// QueueRecost holds pending recalculation requests. Anything that changes
// costing inputs (ingredient price update, recipe edit, import) enqueues
// here instead of recomputing inline.
const QueueRecost = "jobs:recost"

// Job is the generic envelope for queued tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RecostPayload describes why a recalculation was requested.
type RecostPayload struct {
	Reason      string `json:"reason"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueRecost pushes a recalculation job to Redis.
func (d *Dispatcher) EnqueueRecost(ctx context.Context, payload RecostPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: "recost", Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueRecost, encoded).Err()
}

// StartPool launches numWorkers goroutines consuming the recost queue.
// Each goroutine blocks on BRPOP, so an idle pool costs no CPU.
func StartPool(ctx context.Context, rdb *redis.Client, svc service.CostingService, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, svc, i)
	}
	log.Info().Msgf("recost worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, svc service.CostingService, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueRecost).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, svc, result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, svc service.CostingService, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal recost job")
		return
	}
	var payload RecostPayload
	_ = json.Unmarshal(job.Payload, &payload)

	// Inputs changed, so the cached report is stale by definition.
	svc.Invalidate(ctx)

	report, err := svc.CostKitchen(ctx)
	if err != nil {
		log.Error().Err(err).Str("reason", payload.Reason).Msg("recost failed")
		SendToDLQ(ctx, rdb, QueueRecost, job.Type, job.Payload, err.Error(), 1)
		return
	}

	log.Info().
		Str("reason", payload.Reason).
		Int("recipes", len(report.Totals)).
		Int("passes", report.Diagnostics.Passes).
		Bool("converged", report.Diagnostics.Converged).
		Msg("recost completed")

	if !report.Diagnostics.Converged {
		log.Warn().
			Str("last_delta", report.Diagnostics.LastDelta.String()).
			Msg("costing did not converge, likely a sub-recipe cycle")
	}
}
