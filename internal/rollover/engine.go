package rollover

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/vividhneo/dailytasksv3/internal/clock"
	"github.com/vividhneo/dailytasksv3/internal/model"
	"github.com/vividhneo/dailytasksv3/internal/storage"
	"github.com/vividhneo/dailytasksv3/internal/telemetry"
)

// TaskSource is the slice of the task store the engine needs.
type TaskSource interface {
	TasksOn(date model.Date) []model.Task
	Add(text string, date model.Date, profileID model.ProfileID) (model.Task, error)
}

// ProfileSource lists the profiles to sweep.
type ProfileSource interface {
	List() []model.Profile
}

// Result reports one rollover pass.
type Result struct {
	Date    model.Date `json:"date"`
	Rolled  int        `json:"rolled"`
	Skipped bool       `json:"skipped"`
}

// Engine migrates yesterday's incomplete tasks to today, at most once per
// calendar day. The startup check, the cron tick and the manual endpoint
// all funnel through RunOnce, which serializes on the engine mutex so the
// once-per-day bookkeeping check stays safe.
//
// Only the immediately preceding day is swept. Tasks left incomplete two
// or more days ago stay on their original date.
type Engine struct {
	mu       sync.Mutex
	kv       storage.KV
	tasks    TaskSource
	profiles ProfileSource
	clock    clock.Clock
	logger   *log.Logger
	events   telemetry.Repository
	cron     *cron.Cron
}

func NewEngine(kv storage.KV, tasks TaskSource, profiles ProfileSource, clk clock.Clock, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		kv:       kv,
		tasks:    tasks,
		profiles: profiles,
		clock:    clk,
		logger:   logger,
	}
}

func (e *Engine) SetEventLog(events telemetry.Repository) {
	e.events = events
}

// RunOnce performs the daily check. Calling it any number of times within
// the same calendar day migrates tasks at most once: the pass is skipped
// when the bookkeeping date already equals today, and the bookkeeping
// date only advances after every rolled task has been persisted.
func (e *Engine) RunOnce() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := model.DateOf(e.clock.Now())

	var last model.Date
	if _, err := e.kv.Get(storage.KeyLastRolloverDate, &last); err != nil {
		return Result{}, fmt.Errorf("load last rollover date: %w", err)
	}
	if last == today {
		return Result{Date: today, Skipped: true}, nil
	}

	yesterday := today.AddDays(-1)
	carried := e.tasks.TasksOn(yesterday)

	rolled := 0
	for _, p := range e.profiles.List() {
		for _, t := range carried {
			if t.ProfileID != p.ID || t.Completed {
				continue
			}
			// The original task keeps its date; prior days are
			// history, not workspace.
			if _, err := e.tasks.Add(t.Text, today, t.ProfileID); err != nil {
				return Result{}, fmt.Errorf("roll task %s: %w", t.ID, err)
			}
			rolled++
		}
	}

	if err := e.kv.Set(storage.KeyLastRolloverDate, today); err != nil {
		return Result{}, fmt.Errorf("persist last rollover date: %w", err)
	}

	if rolled > 0 {
		e.logger.Printf("rollover: carried %d task(s) from %s to %s", rolled, yesterday, today)
	}
	if e.events != nil {
		_ = e.events.RecordEvent(telemetry.EventRolloverCompleted, telemetry.EventMetadata{
			"date":   string(today),
			"rolled": rolled,
		})
	}

	return Result{Date: today, Rolled: rolled}, nil
}

// LastRun returns the bookkeeping date of the last successful pass, or ""
// when no pass has run yet.
func (e *Engine) LastRun() (model.Date, error) {
	var last model.Date
	if _, err := e.kv.Get(storage.KeyLastRolloverDate, &last); err != nil {
		return "", fmt.Errorf("load last rollover date: %w", err)
	}
	return last, nil
}

// Start schedules periodic checks. The unit of rollover is a calendar
// day, so anything at hourly granularity or finer only adds idempotent
// skips.
func (e *Engine) Start(spec string) error {
	if e.cron != nil {
		return fmt.Errorf("rollover scheduler already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := e.RunOnce(); err != nil {
			e.logger.Printf("rollover: scheduled pass failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule rollover %q: %w", spec, err)
	}

	c.Start()
	e.cron = c
	return nil
}

// Stop halts the scheduler. In-flight passes run to completion.
func (e *Engine) Stop() {
	if e.cron == nil {
		return
	}
	<-e.cron.Stop().Done()
	e.cron = nil
}
