package orderclient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/logger"
	"mealplan-backend/internal/models"
)

const DefaultPollInterval = 15 * time.Second

type StatusFetcher interface {
	OrderStatus(ctx context.Context, id uint) (models.OrderStatus, error)
}

// Poller re-fetches an order's status on a fixed interval. It is the
// substitute for push delivery: the customer sees ready within one interval.
type Poller struct {
	fetch    StatusFetcher
	interval time.Duration
}

func NewPoller(fetch StatusFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{fetch: fetch, interval: interval}
}

// Watch polls order id until it is completed or ctx ends. onChange is called
// with every status that differs from the previous one, starting with the
// first fetch. Transient fetch errors are logged and retried on the next
// tick; client errors (4xx) end the watch.
func (p *Poller) Watch(ctx context.Context, id uint, onChange func(models.OrderStatus)) (models.OrderStatus, error) {
	log := logger.WithCtx(ctx).With(slog.Uint64("order_id", uint64(id)))

	var last models.OrderStatus
	check := func() (done bool, err error) {
		st, err := p.fetch.OrderStatus(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}
			if permanent(err) {
				return true, err
			}
			log.Warn("order status poll failed", slog.Any("error", err))
			return false, nil
		}
		if st != last {
			last = st
			if onChange != nil {
				onChange(st)
			}
		}
		return st == models.OrderCompleted, nil
	}

	if done, err := check(); done {
		return last, err
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
			if done, err := check(); done {
				return last, err
			}
		}
	}
}

func permanent(err error) bool {
	var e *apperr.Error
	return errors.As(err, &e) && e.Status >= 400 && e.Status < 500
}
