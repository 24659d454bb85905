// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Job represents a scheduled task that runs at a fixed interval
// and never overlaps with itself (singleton mode).
type Job struct {
	name     string
	interval time.Duration
	task     func(context.Context)
}

// New creates a new Job with the given name, interval and task.
func New(name string, interval time.Duration, task func(context.Context)) *Job {
	return &Job{
		name:     name,
		interval: interval,
		task:     task,
	}
}

// Name returns the name the job is registered with.
func (j *Job) Name() string {
	return j.name
}

// Start schedules the job and blocks until the context is cancelled. A tick that fires while a
// previous run is still executing is rescheduled instead of running in parallel.
func (j *Job) Start(ctx context.Context) error {
	if j.task == nil || j.interval <= 0 {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(j.task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(j.name),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", j.name, err)
	}
	scheduler.Start()

	<-ctx.Done()
	if err = scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler for %s: %w", j.name, err)
	}
	return nil
}
