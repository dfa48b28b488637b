package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"rewards-admin-service/internal/services"

	"github.com/hibiken/asynq"
)

// StartRefetchWorker consumes the deferred refetch queue in-process, since
// the tasks reconcile the order service's in-memory state. Runs in its own
// goroutine; errors are fatal because a dead refetch consumer silently
// freezes the console's order lists.
func StartRefetchWorker(redisOpt asynq.RedisClientOpt, orders *services.OrderService) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				QueueRefetch: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	for _, taskType := range []string{TypeRefetchOrders, TypeRefetchMyOrders, TypeRefetchPending} {
		taskType := taskType
		mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
			var p RefetchPayload
			if err := json.Unmarshal(t.Payload(), &p); err != nil {
				return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
			}
			orders.RunRefetch(taskType, p.UserId)
			return nil
		})
	}

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Fatalf("could not run refetch worker: %v", err)
		}
	}()
}

// StartNotificationWorker consumes the notification dispatch queue. Blocks;
// run it from the worker binary.
func StartNotificationWorker(redisOpt asynq.RedisClientOpt, notifications *services.NotificationService) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueNotifications: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotifyUser, func(ctx context.Context, t *asynq.Task) error {
		var p services.NotifyPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
		}
		notifications.Dispatch(p)
		return nil
	})

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run notification worker: %v", err)
	}
}
