package utils

import (
	"context"
	"time"
)

// ContextWithTimeout — обёртка для ограничения долгих операций
// (пересчёт статистики, пакетное создание).
func ContextWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
