package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CleanupScheduler periodically removes generated export archives that
// were never streamed. Database rows are not touched; translation files
// are only ever soft-deleted.
type CleanupScheduler struct {
	exportDir string
	schedule  string
	maxAge    time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewCleanupScheduler(exportDir, schedule string, maxAge time.Duration) *CleanupScheduler {
	return &CleanupScheduler{
		exportDir: exportDir,
		schedule:  schedule,
		maxAge:    maxAge,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Cleanup scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Cleanup scheduler: stopped")
}

// RunNow triggers an immediate cleanup.
func (s *CleanupScheduler) RunNow() {
	go s.runCleanup()
}

func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *CleanupScheduler) runCleanup() {
	start := time.Now()
	removed := s.removeStaleExports()
	log.Printf("Cleanup: removed %d stale export archives in %v",
		removed, time.Since(start).Round(time.Millisecond))
}

// removeStaleExports deletes generated archives older than maxAge.
// Export files are normally removed right after being streamed; this
// catches archives whose download never happened.
func (s *CleanupScheduler) removeStaleExports() int {
	entries, err := os.ReadDir(s.exportDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Cleanup: failed to read export dir: %v", err)
		}
		return 0
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".zip" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.exportDir, entry.Name())); err != nil {
			log.Printf("Cleanup: failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed
}
