package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"receptionist/models"
	"receptionist/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Regenerator rebuilds a business slot table from its provider calendars.
type Regenerator interface {
	Regenerate(ctx context.Context, businessID string, from time.Time, loc *time.Location) (*models.AvailabilitySlots, error)
}

// BusinessDirectory lists the businesses a sweep covers.
type BusinessDirectory interface {
	ListBusinessIDs(ctx context.Context) ([]string, error)
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type AvailabilityWorker struct {
	regenerator Regenerator
	businesses  BusinessDirectory
	queue       Enqueuer
	now         func() time.Time
	logger      *zap.Logger
}

func NewAvailabilityWorker(regenerator Regenerator, businesses BusinessDirectory, queue Enqueuer, logger *zap.Logger) *AvailabilityWorker {
	return &AvailabilityWorker{
		regenerator: regenerator,
		businesses:  businesses,
		queue:       queue,
		now:         time.Now,
		logger:      logger,
	}
}

// InitAvailabilityWorker runs the asynq server for availability tasks in background.
func InitAvailabilityWorker(redisOpts asynq.RedisClientOpt, w *AvailabilityWorker) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueAvailability: 2,
				"default":               1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRegenerateAvailability, w.HandleRegenerate)
	mux.HandleFunc(tasks.TypeSweepAvailability, w.HandleSweep)

	go func() {
		w.logger.Info("starting availability worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			w.logger.Error("availability worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Fatal("max retry attempts reached for availability worker")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// ScheduleNightlyRegeneration registers the sweep on cronspec (for example "0 2 * * *").
func ScheduleNightlyRegeneration(redisOpts asynq.RedisClientOpt, cronspec string, logger *zap.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		EnqueueErrorHandler: func(task *asynq.Task, opts []asynq.Option, err error) {
			logger.Error("failed to enqueue scheduled task", zap.String("type", task.Type()), zap.Error(err))
		},
	})
	task, opts := tasks.NewSweepTask()
	entryID, err := scheduler.Register(cronspec, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("register availability sweep: %w", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("availability scheduler stopped", zap.Error(err))
		}
	}()
	logger.Info("nightly availability regeneration scheduled",
		zap.String("cron", cronspec),
		zap.String("entry", entryID))
	return scheduler, nil
}

// HandleRegenerate rebuilds one table. A missing From means today in the business timezone.
func (w *AvailabilityWorker) HandleRegenerate(ctx context.Context, task *asynq.Task) error {
	var p models.RegeneratePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.logger.Error("invalid regenerate payload", zap.Error(err))
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.BusinessID == "" {
		return fmt.Errorf("missing business id: %w", asynq.SkipRetry)
	}

	business, err := w.businesses.GetBusiness(ctx, p.BusinessID)
	if err != nil {
		return fmt.Errorf("load business %s: %w", p.BusinessID, err)
	}
	loc := business.Location()

	from := w.now().In(loc)
	if p.From != "" {
		from, err = time.ParseInLocation(dateLayout, p.From, loc)
		if err != nil {
			return fmt.Errorf("invalid from date %q: %w", p.From, asynq.SkipRetry)
		}
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)

	if _, err := w.regenerator.Regenerate(ctx, p.BusinessID, from, loc); err != nil {
		w.logger.Error("availability regeneration failed", zap.String("business", p.BusinessID), zap.Error(err))
		return err
	}
	return nil
}

// HandleSweep enqueues a regenerate task for every business.
func (w *AvailabilityWorker) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	ids, err := w.businesses.ListBusinessIDs(ctx)
	if err != nil {
		return fmt.Errorf("list businesses: %w", err)
	}
	var enqueued int
	for _, id := range ids {
		if err := EnqueueRegeneration(ctx, w.queue, id, ""); err != nil {
			w.logger.Warn("failed to enqueue regeneration", zap.String("business", id), zap.Error(err))
			continue
		}
		enqueued++
	}
	w.logger.Info("availability sweep enqueued", zap.Int("businesses", len(ids)), zap.Int("enqueued", enqueued))
	return nil
}

// EnqueueRegeneration queues a rebuild; a request already pending for the same
// business and date is treated as success.
func EnqueueRegeneration(ctx context.Context, queue Enqueuer, businessID, from string) error {
	task, opts, err := tasks.NewRegenerateTask(models.RegeneratePayload{BusinessID: businessID, From: from})
	if err != nil {
		return err
	}
	_, err = queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

// MonitorRedisConnection pings the queue's Redis periodically until ctx is done.
func MonitorRedisConnection(ctx context.Context, client *redis.Client, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
