package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockledger/internal/repositories"
	"stockledger/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// ProjectionAuditor periodically replays the full movement ledger and compares
// the result against the stock_items projection, logging any drift. It is
// read-only; repair stays a human decision.
type ProjectionAuditor struct {
	scheduler    gocron.Scheduler
	movementRepo repositories.MovementRepository
	stockRepo    repositories.StockItemRepository
	interval     time.Duration
}

func NewProjectionAuditor(movementRepo repositories.MovementRepository, stockRepo repositories.StockItemRepository, interval time.Duration) (*ProjectionAuditor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	a := &ProjectionAuditor{
		scheduler:    scheduler,
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
		interval:     interval,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := a.Audit(ctx); err != nil {
				log.Printf("projection audit failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("register audit job: %w", err)
	}

	return a, nil
}

func (a *ProjectionAuditor) Start() {
	log.Printf("starting projection auditor (every %s)", a.interval)
	a.scheduler.Start()
}

func (a *ProjectionAuditor) Stop() error {
	return a.scheduler.Shutdown()
}

// Audit replays the ledger in commit order and reports every (product,
// location) pair whose projected quantity disagrees with the stored one.
func (a *ProjectionAuditor) Audit(ctx context.Context) error {
	movements, err := a.movementRepo.ListAllAscending(ctx)
	if err != nil {
		return fmt.Errorf("list movements: %w", err)
	}
	items, err := a.stockRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list stock items: %w", err)
	}

	expected := services.ReplayProjection(movements)

	drift := 0
	seen := make(map[services.StockKey]bool, len(items))
	for _, item := range items {
		key := services.StockKey{ProductID: item.ProductID, LocationID: item.LocationID}
		seen[key] = true
		if want := expected[key]; want != item.Quantity {
			drift++
			log.Printf("projection drift: product=%s location=%s stored=%d replayed=%d",
				item.ProductID, item.LocationID, item.Quantity, want)
		}
	}
	for key, want := range expected {
		if !seen[key] {
			drift++
			log.Printf("projection drift: product=%s location=%s stored=<missing> replayed=%d",
				key.ProductID, key.LocationID, want)
		}
	}

	if drift == 0 {
		log.Printf("projection audit: %d movements, %d stock rows, no drift", len(movements), len(items))
	}
	return nil
}
