package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/mealprep-backend/internal/platform/logger"
	"github.com/yungbote/mealprep-backend/internal/temporalx"
	"github.com/yungbote/mealprep-backend/internal/temporalx/sweep"
)

const startMaxWait = 60 * time.Second

type Runner struct {
	log  *logger.Logger
	tc   temporalsdkclient.Client
	cfg  temporalx.Config
	acts *sweep.Activities
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	cfg temporalx.Config,
	labels sweep.StaleLister,
	calibrator sweep.Calibrator,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if labels == nil || calibrator == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	return &Runner{
		log:  log,
		tc:   tc,
		cfg:  cfg.WithDefaults(),
		acts: &sweep.Activities{Log: log, Labels: labels, Yield: calibrator},
	}, nil
}

// Start polls the task queue until ctx is done and then starts the scheduled sweeps.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)
	}

	deadline := time.Now().Add(startMaxWait)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			if r.log != nil {
				r.log.Info("Temporal worker started", "task_queue", r.cfg.TaskQueue, "attempts", attempt)
			}
			return r.schedule(ctx)
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && r.cfg.AutoRegisterNamespace {
			_ = temporalx.EnsureNamespace(ctx, r.log, r.cfg)
		}
		if time.Now().After(deadline) {
			if errors.As(startErr, &nfe) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", r.cfg.Namespace, startErr)
			}
			return startErr
		}
		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "task_queue", r.cfg.TaskQueue, "attempt", attempt, "error", startErr)
		}
		time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
	}
}

func (r *Runner) newWorker() worker.Worker {
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     r.cfg.WorkerConcurrency,
		MaxConcurrentWorkflowTaskExecutionSize: r.cfg.WorkerConcurrency,
	})
	w.RegisterWorkflowWithOptions(sweep.Workflow, workflow.RegisterOptions{Name: sweep.WorkflowName})
	w.RegisterActivityWithOptions(r.acts.ListStale, activity.RegisterOptions{Name: sweep.ActivityListStale})
	w.RegisterActivityWithOptions(r.acts.Calibrate, activity.RegisterOptions{Name: sweep.ActivityCalibrate})
	return w
}

// schedule starts one cron workflow per configured org. A sweep that is already
// running under the same workflow id is left alone.
func (r *Runner) schedule(ctx context.Context) error {
	for _, start := range sweepStarts(r.cfg) {
		run, err := r.tc.ExecuteWorkflow(ctx, start.opts, sweep.WorkflowName, start.in)
		if err != nil {
			var already *serviceerror.WorkflowExecutionAlreadyStarted
			if errors.As(err, &already) {
				continue
			}
			return fmt.Errorf("schedule provenance sweep for %s: %w", start.in.OrganizationID, err)
		}
		if r.log != nil {
			r.log.Info("Provenance sweep scheduled", "organization_id", start.in.OrganizationID, "cron", r.cfg.SweepCron, "run_id", run.GetRunID())
		}
	}
	return nil
}

type sweepStart struct {
	opts temporalsdkclient.StartWorkflowOptions
	in   sweep.Input
}

func sweepStarts(cfg temporalx.Config) []sweepStart {
	if cfg.SweepCron == "" {
		return nil
	}
	out := make([]sweepStart, 0, len(cfg.SweepOrgs))
	for _, org := range cfg.SweepOrgs {
		in := sweep.Input{
			OrganizationID: org.String(),
			StaleLimit:     cfg.SweepStaleLimit,
			Calibrate:      cfg.SweepCalibrate,
		}
		out = append(out, sweepStart{
			opts: temporalsdkclient.StartWorkflowOptions{
				ID:                 sweep.WorkflowID(in.OrganizationID),
				TaskQueue:          cfg.TaskQueue,
				CronSchedule:       cfg.SweepCron,
				WorkflowRunTimeout: 30 * time.Minute,
			},
			in: in,
		})
	}
	return out
}
