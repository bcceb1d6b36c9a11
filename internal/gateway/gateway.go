// Package gateway is the port to the external payment rail processor.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type Request struct {
	Reference       string
	UserID          string
	PaymentMethodID string
	Rail            model.RailType
	Amount          float64
	Currency        string
	Description     string
}

// Result is delivered exactly once on the channel returned by Submit.
// Err is set when the submission could not complete (cancelled, transport error).
type Result struct {
	Approved   bool
	GatewayRef string
	Reason     string
	Err        error
}

// Gateway submits a payment and returns a future for its outcome.
// Implementations must send on the returned channel exactly once and must
// stop work when ctx is done.
type Gateway interface {
	Submit(ctx context.Context, req Request) <-chan Result
}

// Func adapts a synchronous function into a Gateway.
type Func func(ctx context.Context, req Request) Result

func (f Func) Submit(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	ch <- f(ctx, req)
	return ch
}

// Simulated approves submissions after a fixed delay. Amounts above
// DeclineOver (when > 0) are declined, which gives a deterministic way to
// exercise the failure path.
type Simulated struct {
	Delay       time.Duration
	DeclineOver float64
}

func (s *Simulated) Submit(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			ch <- Result{Err: ctx.Err()}
		case <-timer.C:
			if s.DeclineOver > 0 && req.Amount > s.DeclineOver {
				ch <- Result{Reason: fmt.Sprintf("amount %.2f %s over limit", req.Amount, req.Currency)}
				return
			}
			ch <- Result{Approved: true, GatewayRef: "sim_" + uuid.NewString()}
		}
	}()
	return ch
}
