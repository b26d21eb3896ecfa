package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/graham-fleming/lifehub/internal/config"
	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/queue"
)

// NewReembedCmd creates the reembed command. It enqueues re-embedding
// jobs for the worker, used when migrating to a new embedding model.
func NewReembedCmd() *cobra.Command {
	var userID string
	var activeWithin time.Duration

	cmd := &cobra.Command{
		Use:   "reembed",
		Short: "Enqueue saved-item re-embedding jobs",
		Long:  "Enqueue re-embedding jobs for one user (--user) or every recently active user (--active-within).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" && activeWithin <= 0 {
				return fmt.Errorf("one of --user or --active-within is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is required")
			}

			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() {
				if err := jobQueue.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close RabbitMQ connection: %v\n", err)
				}
			}()

			ctx := context.Background()

			if userID != "" {
				id, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				job := queue.NewJob(queue.JobTypeReembedUser, id, nil)
				if err := jobQueue.Enqueue(ctx, job); err != nil {
					return fmt.Errorf("failed to enqueue job: %w", err)
				}
				fmt.Printf("Enqueued re-embedding job for user %s\n", id)
				return nil
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()

			activityRepo := database.NewUserActivityRepository(db)
			users, err := activityRepo.GetActiveUsers(ctx, activeWithin)
			if err != nil {
				return fmt.Errorf("failed to list active users: %w", err)
			}

			for _, id := range users {
				job := queue.NewJob(queue.JobTypeReembedUser, id, nil)
				if err := jobQueue.Enqueue(ctx, job); err != nil {
					return fmt.Errorf("failed to enqueue job for user %s: %w", id, err)
				}
			}
			fmt.Printf("Enqueued re-embedding jobs for %d active users\n", len(users))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID to re-embed")
	cmd.Flags().DurationVar(&activeWithin, "active-within", 0, "Re-embed all users active within this window (e.g. 168h)")

	return cmd
}
