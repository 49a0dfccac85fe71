package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"barberremind/config"
	"barberremind/models"
	"barberremind/services/dispatch"
	"barberremind/services/tasks"

	"github.com/hibiken/asynq"
)

// InitDispatchWorker runs the async worker for scheduled reminder
// batches in the background.
func InitDispatchWorker(dispatchSvc dispatch.DispatchService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// Dispatch batches are rate-sensitive towards the gateway;
			// one at a time is enough.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDispatchReminders, handleDispatchTask(dispatchSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[DispatchWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DispatchWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DispatchWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleDispatchTask(dispatchSvc dispatch.DispatchService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.DispatchPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[DispatchWorker] Invalid payload: %v", err)
			return err
		}

		log.Printf("[DispatchWorker] Running scheduled dispatch for shop %s on %s", p.ShopID, p.Date)

		res, err := dispatchSvc.Dispatch(ctx, models.DispatchRequest{
			ShopID:   p.ShopID,
			Date:     p.Date,
			Template: p.Template,
		})
		if err != nil {
			log.Printf("[DispatchWorker] Dispatch failed for shop %s on %s: %v", p.ShopID, p.Date, err)
			return err
		}

		log.Printf("[DispatchWorker] Dispatch done for shop %s on %s: attempted=%d sent=%d skipped=%d",
			p.ShopID, p.Date, res.Attempted, res.Sent, res.Skipped)
		return nil
	}
}
