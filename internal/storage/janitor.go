package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default janitor settings.
const (
	DefaultMaxAge   = time.Hour
	DefaultSchedule = "@every 10m"
)

// ErrJanitorRunning is returned by Start when the janitor is already scheduled.
var ErrJanitorRunning = errors.New("janitor already started")

// Janitor periodically removes workspaces that outlived their request,
// for example after a crash skipped the deferred release.
type Janitor struct {
	baseDir string
	maxAge  time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
}

// NewJanitor creates a Janitor for workspaces under baseDir.
// A non-positive maxAge falls back to DefaultMaxAge.
func NewJanitor(baseDir string, maxAge time.Duration, logger *slog.Logger) *Janitor {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		baseDir: baseDir,
		maxAge:  maxAge,
		logger:  logger,
	}
}

// Sweep removes every workspace last modified before now minus the max age
// and returns how many were removed. Failures on individual workspaces are
// logged and do not stop the sweep.
func (j *Janitor) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(j.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read base directory: %w", err)
	}

	cutoff := now.Add(-j.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), WorkspacePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(j.baseDir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			j.logger.Warn("failed to remove stale workspace",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("removed stale workspaces", slog.Int("count", removed))
	}
	return removed, nil
}

// Start schedules Sweep with a cron expression such as "@every 10m".
func (j *Janitor) Start(schedule string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cron != nil {
		return ErrJanitorRunning
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New()
	id, err := c.AddFunc(schedule, func() {
		if _, err := j.Sweep(time.Now()); err != nil {
			j.logger.Error("workspace sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	j.cron = c
	j.entryID = id
	c.Start()

	j.logger.Info("janitor started",
		slog.String("schedule", schedule),
		slog.Duration("max_age", j.maxAge),
	)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish or ctx
// to expire.
func (j *Janitor) Stop(ctx context.Context) {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()

	if c == nil {
		return
	}

	c.Remove(j.entryID)
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}
