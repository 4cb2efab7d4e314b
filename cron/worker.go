package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"marketpulse/config"
	"marketpulse/models"
	"marketpulse/services/report"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	robcron "github.com/robfig/cron/v3"
)

const TypeReportRun = "report:run"

// InitReportWorker runs the async report worker in background and starts
// the periodic sweep that enqueues due schedules.
func InitReportWorker(reportSvc report.Service, repo ScheduleSource) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReportRun, handleReportTask(reportSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReportWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReportWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReportWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	startScheduleSweep(repo, asynq.NewClient(redisOpts))
}

// ScheduleSource is the slice of the report repository the sweep needs.
type ScheduleSource interface {
	DueSchedules(ctx context.Context, now time.Time) ([]models.ScheduledReport, error)
}

func handleReportTask(reportSvc report.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var schedule models.ScheduledReport
		if err := json.Unmarshal(task.Payload(), &schedule); err != nil {
			log.Printf("[ReportHandler] Invalid payload: %v", err)
			return err
		}

		log.Printf("[ReportHandler] Running scheduled %s report for provider %s", schedule.ReportType, schedule.ProviderID)

		if err := reportSvc.RunScheduled(ctx, schedule); err != nil {
			log.Printf("[ReportHandler] Scheduled run failed: %v", err)
			return err
		}
		return nil
	}
}

// startScheduleSweep polls for due schedules and enqueues one task per
// schedule. The run itself advances next_run_date, so a schedule stays
// due until its task has executed; asynq deduplicates retries per task.
func startScheduleSweep(repo ScheduleSource, client *asynq.Client) {
	minutes := config.AppConfig.ScheduleSweepMinutes
	if minutes <= 0 {
		minutes = 15
	}

	c := robcron.New()
	spec := fmt.Sprintf("@every %dm", minutes)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		due, err := repo.DueSchedules(ctx, time.Now())
		if err != nil {
			log.Printf("[ScheduleSweep] Failed to list due schedules: %v", err)
			return
		}
		for _, schedule := range due {
			payload, err := json.Marshal(schedule)
			if err != nil {
				log.Printf("[ScheduleSweep] Failed to encode schedule %s: %v", schedule.ID, err)
				continue
			}
			task := asynq.NewTask(TypeReportRun, payload)
			if _, err := client.Enqueue(task, asynq.MaxRetry(3), asynq.TaskID(schedule.ID)); err != nil {
				log.Printf("[ScheduleSweep] Failed to enqueue schedule %s: %v", schedule.ID, err)
			}
		}
		if len(due) > 0 {
			log.Printf("[ScheduleSweep] Enqueued %d due schedule(s)", len(due))
		}
	})
	if err != nil {
		log.Printf("[ScheduleSweep] Invalid sweep spec %q: %v", spec, err)
		return
	}
	c.Start()
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReportWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
