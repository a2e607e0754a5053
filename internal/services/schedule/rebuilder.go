package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/models"
)

// Publisher receives every freshly built report.
type Publisher interface {
	Publish(ctx context.Context, report models.ShiftReport) error
}

// ReadingsStore serves checklist readings persisted outside the workbook.
type ReadingsStore interface {
	ListStartedBetween(ctx context.Context, from, to time.Time) ([]models.ChecklistReading, error)
}

// Rebuilder builds and publishes the report. Runs never overlap.
type Rebuilder struct {
	loader    Loader
	store     ReadingsStore
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewRebuilder wires a rebuilder. store may be nil, in which case readings
// come from the loader.
func NewRebuilder(loader Loader, store ReadingsStore, publisher Publisher, logger *zap.Logger) *Rebuilder {
	return &Rebuilder{
		loader:    loader,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// InLocation makes the rebuilder evaluate "today" in loc.
func (b *Rebuilder) InLocation(loc *time.Location) *Rebuilder {
	b.now = func() time.Time { return time.Now().In(loc) }
	return b
}

func (b *Rebuilder) Run(ctx context.Context) (models.ShiftReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.now()
	entries, readings, err := b.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if b.store != nil {
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		readings, err = b.store.ListStartedBetween(ctx, day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
		if err != nil {
			return nil, fmt.Errorf("load readings: %w", err)
		}
	}

	report := Build(entries, readings, start)
	if err := b.publisher.Publish(ctx, report); err != nil {
		return report, err
	}
	b.logger.Info("report rebuilt",
		zap.Int("entries", len(entries)),
		zap.Int("readings", len(readings)),
		zap.Any("missing", report.Counts()),
		zap.Duration("took", b.now().Sub(start)),
	)
	return report, nil
}

// Loop rebuilds once immediately and then on every tick until ctx ends.
func (b *Rebuilder) Loop(ctx context.Context, interval time.Duration) {
	b.logger.Info("✅ report rebuild job started", zap.Duration("interval", interval))
	if _, err := b.Run(ctx); err != nil {
		b.logger.Error("❌ startup rebuild failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := b.Run(ctx); err != nil {
				b.logger.Error("❌ rebuild failed", zap.Error(err))
			}
		}
	}
}
