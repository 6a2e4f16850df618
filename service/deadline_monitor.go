package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vocdoni/confidential-survey/survey"
	"go.vocdoni.io/dvote/log"
)

// DeadlineMonitor represents a service that watches the survey deadline and
// logs when the survey becomes effectively closed. Deadline enforcement lives
// in the engine itself; the monitor only asks the engine to record the
// passage, so both sides agree on the engine clock.
type DeadlineMonitor struct {
	engine   *survey.Engine
	interval time.Duration
	mu       sync.Mutex
	cancel   context.CancelFunc
}

// NewDeadlineMonitor creates a new DeadlineMonitor service.
func NewDeadlineMonitor(engine *survey.Engine, interval time.Duration) *DeadlineMonitor {
	return &DeadlineMonitor{
		engine:   engine,
		interval: interval,
	}
}

// Start begins watching the deadline. It returns an error if the service is
// already running.
func (dm *DeadlineMonitor) Start(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.cancel != nil {
		return fmt.Errorf("service already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	dm.cancel = cancel

	go dm.watch(ctx)
	return nil
}

// Stop halts the monitoring service.
func (dm *DeadlineMonitor) Stop() {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.cancel != nil {
		dm.cancel()
		dm.cancel = nil
	}
}

func (dm *DeadlineMonitor) watch(ctx context.Context) {
	ticker := time.NewTicker(dm.interval)
	defer ticker.Stop()

	expired := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			passed, err := dm.engine.RecordDeadlinePassed()
			if err != nil {
				log.Warnw("failed to check survey deadline", "error", err.Error())
				continue
			}
			// Deadline extensions can bring an expired survey back.
			if passed && !expired {
				expired = true
				log.Infow("survey deadline passed")
			} else if !passed && expired {
				expired = false
				log.Infow("survey deadline extended")
			}
		}
	}
}
