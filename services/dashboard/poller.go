package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"levi/models"
	"levi/services/gateway"
	"levi/utils"

	"go.uber.org/zap"
)

// Source loads the bookings a dashboard renders.
type Source func(ctx context.Context) ([]models.Booking, error)

// GatewaySource reads bookings through the gateway client, mock fallback included.
func GatewaySource(c *gateway.Client, filter models.BookingFilter) Source {
	return func(ctx context.Context) ([]models.Booking, error) {
		return c.GetUserBookings(ctx, filter)
	}
}

// ErrPollerRunning is returned by Start on a poller that was already started.
var ErrPollerRunning = errors.New("poller already running")

// Poller refreshes a dashboard on a fixed interval. OnUpdate runs on the poller's
// goroutine and must not call Stop.
type Poller struct {
	Interval time.Duration
	Source   Source
	OnUpdate func([]models.Booking)
	Logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start refreshes once immediately and then on every tick until ctx ends or Stop is called.
// Once polling has ended either way the poller may be started again.
func (p *Poller) Start(ctx context.Context) error {
	if p.Interval <= 0 || p.Source == nil || p.OnUpdate == nil {
		return errors.New("poller needs an interval, a source and an update callback")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return ErrPollerRunning
	}
	if p.Logger == nil {
		p.Logger = utils.GetLogger()
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
	return nil
}

// Stop cancels polling and waits for the in-flight refresh. No callback runs after Stop
// returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer p.release(done)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		p.refresh(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// release clears the running state when polling ends on its own, so the poller can be
// started again without a Stop.
func (p *Poller) release(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != done {
		return
	}
	p.cancel()
	p.cancel, p.done = nil, nil
}

func (p *Poller) refresh(ctx context.Context) {
	bookings, err := p.Source(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.Logger.Warn("Dashboard refresh failed", zap.Error(err))
		return
	}
	p.OnUpdate(bookings)
}
