// application/scheduler/jobs.go
package scheduler

import (
	"context"
	"fmt"

	"crypto-signal-bot/pkg/logger"
)

// TopPairsRefresher обновляет кэш рейтинга пар
type TopPairsRefresher interface {
	RefreshTopPairs(ctx context.Context, limit int) (int, error)
}

// NewUniverseWarmupJob задача прогрева рейтинга ликвидных пар
func NewUniverseWarmupJob(spec string, refresher TopPairsRefresher, limit int) *Job {
	return &Job{
		Name:        "universe_warmup",
		Description: fmt.Sprintf("обновление топ-%d пар по объему", limit),
		Spec:        spec,
		Handler: func(ctx context.Context) error {
			n, err := refresher.RefreshTopPairs(ctx, limit)
			if err != nil {
				return fmt.Errorf("refresh top pairs: %w", err)
			}
			logger.Info("🔥 Рейтинг пар обновлен: %d", n)
			return nil
		},
	}
}
