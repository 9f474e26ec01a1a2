package checkout

import (
	"context"
	"fmt"
	"sync"

	"iticket-storefront/internal/models"
)

// API is the slice of the remote client the sequencer drives.
type API interface {
	CreateOrder(ctx context.Context, promoCode *string) (*models.Order, error)
	CreateIntent(ctx context.Context, orderID string) (*models.PaymentIntent, error)
	CapturePayment(ctx context.Context, paymentID string) (*models.PaymentDetails, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// Step identifies one step of the checkout chain.
type Step int

const (
	StepCreateOrder Step = iota
	StepCreateIntent
	StepCapture
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepCreateOrder:
		return "create order"
	case StepCreateIntent:
		return "create payment intent"
	case StepCapture:
		return "capture payment"
	case StepConfirm:
		return "confirm order status"
	default:
		return "unknown"
	}
}

// State is how far the flow has progressed. A failed step leaves the
// state where it was; re-invoking Run resumes from the next step using
// the identifiers already obtained. There is no compensation: failure
// halts forward progress and the server keeps whatever was reached.
type State int

const (
	StateStarted State = iota
	StateCreated
	StateIntentIssued
	StateCaptured
	StateConfirmed
)

// StepError reports which step failed so the user knows what to retry.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("checkout failed at %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Event is one progress notification delivered to the observer.
type Event struct {
	Step    Step
	Message string
	Err     error
}

// Flow runs the three dependent payment calls as one logical transaction
// from the caller's perspective: create order, create intent, capture.
// Steps are strictly sequential; step N+1 never starts before step N has
// resolved, and its result feeds the next call. Success is confirmed by
// re-fetching the order, not assumed from the capture response.
type Flow struct {
	api       API
	promoCode *string
	observer  func(Event)

	mu        sync.Mutex
	running   bool
	state     State
	orderID   string
	paymentID string
}

// Option configures a Flow.
type Option func(*Flow)

// WithObserver registers a progress callback. It is invoked synchronously
// between steps (the view renders the events as a process log).
func WithObserver(observer func(Event)) Option {
	return func(f *Flow) {
		f.observer = observer
	}
}

// NewFlow creates a checkout flow for the current cart plus an optional
// promo code.
func NewFlow(api API, promoCode *string, opts ...Option) *Flow {
	f := &Flow{
		api:       api,
		promoCode: promoCode,
		state:     StateStarted,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetObserver replaces the progress callback. A resumed flow gets the
// new request's collector this way.
func (f *Flow) SetObserver(observer func(Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observer = observer
}

// CurrentState returns how far the flow has progressed.
func (f *Flow) CurrentState() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OrderID returns the order created by the flow, if any.
func (f *Flow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// PaymentID returns the payment intent issued by the flow, if any.
func (f *Flow) PaymentID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paymentID
}

// Run executes the remaining steps of the flow. On failure it returns a
// *StepError naming the failed step; calling Run again retries from that
// step with the stored identifiers. A flow that already completed
// returns the confirmed order again without new mutations.
func (f *Flow) Run(ctx context.Context) (*models.Order, error) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil, fmt.Errorf("checkout already in progress")
	}
	f.running = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.running = false
		f.mu.Unlock()
	}()

	if f.state == StateStarted {
		if err := f.createOrder(ctx); err != nil {
			return nil, err
		}
	}

	if f.state == StateCreated {
		if err := f.createIntent(ctx); err != nil {
			return nil, err
		}
	}

	if f.state == StateIntentIssued {
		if err := f.capture(ctx); err != nil {
			return nil, err
		}
	}

	return f.confirm(ctx)
}

func (f *Flow) createOrder(ctx context.Context) error {
	f.notify(Event{Step: StepCreateOrder, Message: "Creating order..."})

	order, err := f.api.CreateOrder(ctx, f.promoCode)
	if err != nil {
		return f.fail(StepCreateOrder, err)
	}

	f.mu.Lock()
	f.orderID = order.ID
	f.state = StateCreated
	f.mu.Unlock()

	f.notify(Event{Step: StepCreateOrder, Message: fmt.Sprintf("Order created: #%s", order.ID)})
	return nil
}

func (f *Flow) createIntent(ctx context.Context) error {
	f.notify(Event{Step: StepCreateIntent, Message: "Creating payment intent..."})

	intent, err := f.api.CreateIntent(ctx, f.orderID)
	if err != nil {
		// Order stays Pending server-side and remains retryable
		return f.fail(StepCreateIntent, err)
	}

	f.mu.Lock()
	f.paymentID = intent.PaymentID
	f.state = StateIntentIssued
	f.mu.Unlock()

	f.notify(Event{Step: StepCreateIntent, Message: fmt.Sprintf("Payment intent created: %s", intent.PaymentID)})
	return nil
}

func (f *Flow) capture(ctx context.Context) error {
	f.notify(Event{Step: StepCapture, Message: "Capturing payment..."})

	if _, err := f.api.CapturePayment(ctx, f.paymentID); err != nil {
		// Intent stays outstanding; the user may retry capture
		return f.fail(StepCapture, err)
	}

	f.mu.Lock()
	f.state = StateCaptured
	f.mu.Unlock()

	f.notify(Event{Step: StepCapture, Message: "Payment captured successfully"})
	return nil
}

func (f *Flow) confirm(ctx context.Context) (*models.Order, error) {
	f.notify(Event{Step: StepConfirm, Message: "Confirming order status..."})

	order, err := f.api.GetOrder(ctx, f.orderID)
	if err != nil {
		return nil, f.fail(StepConfirm, err)
	}
	if order.Status != models.OrderStatusPaid {
		return nil, f.fail(StepConfirm, fmt.Errorf("order %s is %s, expected %s", order.ID, order.Status, models.OrderStatusPaid))
	}

	f.mu.Lock()
	f.state = StateConfirmed
	f.mu.Unlock()

	f.notify(Event{Step: StepConfirm, Message: fmt.Sprintf("Order #%d paid", order.OrderNumber)})
	return order, nil
}

func (f *Flow) fail(step Step, err error) error {
	stepErr := &StepError{Step: step, Err: err}
	f.notify(Event{Step: step, Err: stepErr, Message: stepErr.Error()})
	return stepErr
}

func (f *Flow) notify(event Event) {
	f.mu.Lock()
	observer := f.observer
	f.mu.Unlock()
	if observer != nil {
		observer(event)
	}
}
