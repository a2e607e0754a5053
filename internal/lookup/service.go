package lookup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/models"
)

// Source fetches the current shift report.
type Source interface {
	Fetch(ctx context.Context) (models.ShiftReport, error)
}

// Observer receives every view transition of a lookup.
type Observer func(View)

type Service struct {
	source Source
	logger *zap.Logger
}

func NewService(source Source, logger *zap.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// Lookup fetches the report once and resolves the view for shift. observe,
// when set, sees the pending view before the fetch and the final view after
// it, on every exit path. Calls are not serialized against each other.
func (s *Service) Lookup(ctx context.Context, shift string, observe Observer) (final View) {
	if observe == nil {
		observe = func(View) {}
	}
	observe(Submit(shift))

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Erro ao buscar dados", zap.String("shift", shift), zap.Any("panic", rec))
			final = Resolve(shift, nil, fmt.Errorf("panic: %v", rec))
		}
		observe(final)
	}()

	report, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error("Erro ao buscar dados", zap.String("shift", shift), zap.Error(err))
	}
	final = Resolve(shift, report, err)
	return final
}
