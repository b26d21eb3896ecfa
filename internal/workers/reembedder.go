// Package workers holds the background job processors consumed from the
// message queue.
package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/queue"
	"github.com/graham-fleming/lifehub/internal/services/ai"
	"github.com/graham-fleming/lifehub/internal/services/saver"
)

// Reembedder processes embedding regeneration jobs. It exists for
// embedding model migrations: after switching models every stored vector
// has to be recomputed or similarity scores become meaningless.
type Reembedder struct {
	saverService *saver.Service
	itemRepo     database.SavedItemRepositoryInterface
	jobQueue     queue.JobQueue
	logger       *zap.Logger
}

// NewReembedder creates a new reembedder
func NewReembedder(saverService *saver.Service, itemRepo database.SavedItemRepositoryInterface, jobQueue queue.JobQueue, logger *zap.Logger) *Reembedder {
	return &Reembedder{
		saverService: saverService,
		itemRepo:     itemRepo,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// ProcessJob dispatches a job to the matching handler
func (r *Reembedder) ProcessJob(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeReembedUser:
		return r.processReembedUser(ctx, job)
	case queue.JobTypeReembedItem:
		return r.processReembedItem(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// processReembedUser fans a whole-corpus job out into one job per item,
// so failures and retries are scoped to single items.
func (r *Reembedder) processReembedUser(ctx context.Context, job *queue.Job) error {
	ids, err := r.itemRepo.ListIDsByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to list saved items: %w", err)
	}

	for _, id := range ids {
		itemID := id
		itemJob := queue.NewJob(queue.JobTypeReembedItem, job.UserID, &itemID)
		if err := r.jobQueue.Enqueue(ctx, itemJob); err != nil {
			return fmt.Errorf("failed to enqueue item job: %w", err)
		}
	}

	r.logger.Info("reembed_user_fanned_out",
		zap.String("user_id", job.UserID.String()),
		zap.Int("items", len(ids)),
	)
	return nil
}

func (r *Reembedder) processReembedItem(ctx context.Context, job *queue.Job) error {
	if job.ItemID == nil {
		return fmt.Errorf("item_id is required for reembed_item job")
	}

	item, err := r.itemRepo.GetByID(ctx, *job.ItemID)
	if err != nil {
		return fmt.Errorf("failed to get saved item: %w", err)
	}
	if item.UserID != job.UserID {
		return fmt.Errorf("saved item does not belong to user")
	}

	if err := r.saverService.Reembed(ctx, *job.ItemID); err != nil {
		// Rate limits and quota exhaustion are retried later with a delay
		if ai.IsRateLimitError(err) || ai.IsQuotaError(err) {
			return r.requeueWithDelay(ctx, job, err)
		}
		return fmt.Errorf("failed to reembed item: %w", err)
	}

	r.logger.Info("item_reembedded",
		zap.String("item_id", job.ItemID.String()),
		zap.String("user_id", job.UserID.String()),
	)
	return nil
}

func (r *Reembedder) requeueWithDelay(ctx context.Context, job *queue.Job, cause error) error {
	if !job.CanRetry() {
		return fmt.Errorf("job exhausted retries: %w", cause)
	}

	job.IncrementRetry()
	delay := ai.GetRetryDelay(cause, job.RetryCount)
	notBefore := time.Now().Add(delay)
	job.NotBefore = &notBefore

	if err := r.jobQueue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to requeue job: %w", err)
	}

	r.logger.Warn("job_requeued_after_provider_error",
		zap.String("job_id", job.ID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Duration("delay", delay),
		zap.Error(cause),
	)
	return nil
}

// Run consumes jobs until the context is cancelled
func (r *Reembedder) Run(ctx context.Context, prefetch int) error {
	msgs, errs, err := r.jobQueue.Consume(ctx, prefetch)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case consumeErr, ok := <-errs:
			if !ok {
				return nil
			}
			r.logger.Error("queue_consume_error", zap.Error(consumeErr))
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			r.handleMessage(ctx, msg)
		}
	}
}

func (r *Reembedder) handleMessage(ctx context.Context, msg *queue.Message) {
	job := msg.GetJob()
	if err := r.ProcessJob(ctx, job); err != nil {
		r.logger.Error("job_failed",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Error(err),
		)
		// Nack without requeue; the DLQ keeps the failed message
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Error("failed_to_nack", zap.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		r.logger.Error("failed_to_ack", zap.Error(err))
	}
}
