package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gearshop/app/jobs"
	"gearshop/pkg/cache"
	"gearshop/pkg/queue"
)

var queueWorkersFlag int

// gearshop queue:work — run the confirmation-mail workers standalone.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}

		// A standalone worker needs the Redis driver to see jobs pushed
		// by the server process.
		if err := cache.Connect(); err != nil {
			return fmt.Errorf("queue:work requires redis: %w", err)
		}
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		queue.UseDB(db)
		queue.Register(jobs.OrderConfirmationJobType, func() queue.Job { return &jobs.OrderConfirmationJob{} })

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
