package controllers

import (
	"context"
	"errors"
	"sync"

	"assetmanager/src/scheduler"
	"assetmanager/src/schemas"
	"assetmanager/src/utils"

	"github.com/sirupsen/logrus"
)

var ErrRunInProgress = errors.New("snapshot run already in progress")

type SnapshotRunner interface {
	Run(ctx context.Context) (*schemas.SnapshotRunResult, error)
}

type IController interface {
	RunSnapshots(ctx context.Context) (*schemas.SnapshotRunResult, error)
}

type Controller struct {
	Runner SnapshotRunner
	Logger *logrus.Logger

	runMutex       sync.Mutex
	SchedulerMutex sync.Mutex
	Scheduler      *scheduler.ScheduledTask
}

func NewController(runner SnapshotRunner, logger *logrus.Logger) *Controller {
	return &Controller{Runner: runner, Logger: logger}
}

// RunSnapshots runs one snapshot batch. Overlapping runs are rejected.
func (c *Controller) RunSnapshots(ctx context.Context) (*schemas.SnapshotRunResult, error) {
	if !c.runMutex.TryLock() {
		return nil, ErrRunInProgress
	}
	defer c.runMutex.Unlock()
	return c.Runner.Run(ctx)
}

// ScheduleSnapshots (re)installs the daily snapshot task on cronSpec, evaluated in UTC.
func (c *Controller) ScheduleSnapshots(cronSpec string) error {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	if c.Scheduler != nil {
		c.Scheduler.Cancel()
		c.Scheduler = nil
	}

	task, err := scheduler.NewScheduledTask(cronSpec, nil, func() {
		entry := c.Logger.WithField("trigger", "cron")
		ctx := utils.WithLogger(context.Background(), entry)
		if _, err := c.RunSnapshots(ctx); err != nil {
			entry.WithError(err).Error("scheduled snapshot run failed")
		}
	})
	if err != nil {
		return err
	}

	c.Scheduler = task
	c.Logger.WithField("cron", cronSpec).WithField("next_run", task.Next()).Info("snapshot schedule installed")
	return nil
}

func (c *Controller) StopSnapshots() {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	if c.Scheduler != nil {
		c.Scheduler.Cancel()
		c.Scheduler = nil
	}
}
