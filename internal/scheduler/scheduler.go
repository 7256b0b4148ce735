// Package scheduler runs periodic background synchronization on a cron
// schedule.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mwerner-fin/divtracker-backend/internal/service"
)

// syncTimeout bounds one background sync run; a hung feed request must not
// block the next scheduled run forever.
const syncTimeout = 10 * time.Minute

// Scheduler wraps a cron runner that triggers syncs in the background.
type Scheduler struct {
	cron        *cron.Cron
	syncService *service.SyncService
}

// New creates a Scheduler around the provided sync service.
func New(syncService *service.SyncService) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		syncService: syncService,
	}
}

// Start registers the sync job under the given cron schedule and begins
// running it. An invalid schedule is returned as an error before anything
// starts.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.runSync)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("auto-sync scheduled: %s", schedule)
	return nil
}

// Stop halts the cron runner. A sync already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runSync() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	summary, err := s.syncService.Run(ctx)
	if err != nil {
		log.Printf("auto-sync failed: %v", err)
		return
	}

	log.Printf("auto-sync complete: %d activities, %d symbols", summary.Activities, summary.Symbols)
}
