package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/sirupsen/logrus"
)

// LoginEventArgs is the river job carrying a LoginEvent.
type LoginEventArgs struct {
	Event LoginEvent `json:"event"`
}

func (LoginEventArgs) Kind() string { return "login_event" }

// LoginEventWorker hands queued events to a sink, by default a LogrusLogger.
type LoginEventWorker struct {
	river.WorkerDefaults[LoginEventArgs]
	log logrus.FieldLogger
}

func (w *LoginEventWorker) Work(ctx context.Context, job *river.Job[LoginEventArgs]) error {
	w.log.WithFields(job.Args.Event.fields()).WithField("job_id", job.ID).Info("user signed in")
	return nil
}

// RiverLogger enqueues sign-ins as login_event jobs in Postgres.
type RiverLogger struct {
	client *river.Client[pgx.Tx]
	log    logrus.FieldLogger
}

// NewRiverLogger builds a river client on pool with a worker for login
// events. The river schema must already be migrated.
func NewRiverLogger(pool *pgxpool.Pool, maxWorkers int, l logrus.FieldLogger) (*RiverLogger, error) {
	if pool == nil {
		return nil, errors.New("audit: pgx pool is required")
	}
	if l == nil {
		l = logrus.StandardLogger()
	}
	if maxWorkers <= 0 {
		maxWorkers = 2
	}
	workers := river.NewWorkers()
	river.AddWorker(workers, &LoginEventWorker{log: l})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("audit: river client: %w", err)
	}
	return &RiverLogger{client: client, log: l}, nil
}

// Start begins working queued events.
func (r *RiverLogger) Start(ctx context.Context) error { return r.client.Start(ctx) }

// Stop waits for running jobs to finish.
func (r *RiverLogger) Stop(ctx context.Context) error { return r.client.Stop(ctx) }

func (r *RiverLogger) LogLogin(ctx context.Context, email, method, _ string, ip, userAgent *string) error {
	ev := newEvent(email, method, ip, userAgent)
	if _, err := r.client.Insert(ctx, LoginEventArgs{Event: ev}, nil); err != nil {
		return fmt.Errorf("audit: enqueue login event: %w", err)
	}
	return nil
}
