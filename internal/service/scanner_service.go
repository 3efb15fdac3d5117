package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/events"

	"github.com/robfig/cron/v3"
)

// JobQueue is the durable queue the scanner feeds.
type JobQueue interface {
	Enqueue(ctx context.Context, job events.Job) error
}

// IScannerService periodically sweeps for idle sessions and hands each one
// to the consolidation worker.
type IScannerService interface {
	Start() error
	Stop()
	ScanOnce(ctx context.Context) (int, error)
}

type scannerService struct {
	sessionRepo   contract.SessionRepository
	queue         JobQueue
	scanInterval  time.Duration
	idleThreshold time.Duration
	cron          *cron.Cron
	now           func() time.Time
}

func NewScannerService(
	sessionRepo contract.SessionRepository,
	queue JobQueue,
	scanInterval time.Duration,
	idleThreshold time.Duration,
) IScannerService {
	return &scannerService{
		sessionRepo:   sessionRepo,
		queue:         queue,
		scanInterval:  scanInterval,
		idleThreshold: idleThreshold,
		cron:          cron.New(),
		now:           time.Now,
	}
}

func (ss *scannerService) Start() error {
	spec := fmt.Sprintf("@every %s", ss.scanInterval)
	_, err := ss.cron.AddFunc(spec, func() {
		count, err := ss.ScanOnce(context.Background())
		if err != nil {
			log.Printf("[ERROR] Scanner: sweep failed: %v", err)
			return
		}
		if count > 0 {
			log.Printf("[INFO] Scanner: enqueued %d sessions for consolidation", count)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule inactivity scan: %w", err)
	}
	ss.cron.Start()
	return nil
}

func (ss *scannerService) Stop() {
	ss.cron.Stop()
}

// ScanOnce selects every unarchived session idle past the threshold and
// enqueues exactly one consolidation job per session. The queue's
// at-least-once delivery plus the pipeline's idempotence make a session
// that stays idle across multiple sweeps harmless.
func (ss *scannerService) ScanOnce(ctx context.Context) (int, error) {
	cutoff := ss.now().Add(-ss.idleThreshold)
	sessions, err := ss.sessionRepo.FindAll(ctx,
		specification.NotArchived{},
		specification.IdleBefore{Cutoff: cutoff},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to select idle sessions: %w", err)
	}

	enqueued := 0
	for _, session := range sessions {
		job := events.ConsolidateSessionJob{SessionId: session.Id.String()}
		if err := ss.queue.Enqueue(ctx, job); err != nil {
			// The session stays unarchived, so the next sweep picks it up.
			log.Printf("[ERROR] Scanner: failed to enqueue session %s: %v", session.Id, err)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}
