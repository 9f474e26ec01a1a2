package checkout

import (
	"context"
	"testing"

	"iticket-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of the checkout API surface
type MockAPI struct {
	mock.Mock
	calls []string
}

func (m *MockAPI) CreateOrder(ctx context.Context, promoCode *string) (*models.Order, error) {
	m.calls = append(m.calls, "CreateOrder")
	args := m.Called(ctx, promoCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockAPI) CreateIntent(ctx context.Context, orderID string) (*models.PaymentIntent, error) {
	m.calls = append(m.calls, "CreateIntent")
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentIntent), args.Error(1)
}

func (m *MockAPI) CapturePayment(ctx context.Context, paymentID string) (*models.PaymentDetails, error) {
	m.calls = append(m.calls, "CapturePayment")
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentDetails), args.Error(1)
}

func (m *MockAPI) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	m.calls = append(m.calls, "GetOrder")
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func TestFlow_HappyPath(t *testing.T) {
	// Setup
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, (*string)(nil)).
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending, Total: 25}, nil)
	mockAPI.On("CreateIntent", mock.Anything, "O1").
		Return(&models.PaymentIntent{PaymentID: "P1", OrderID: "O1", Amount: 25}, nil)
	mockAPI.On("CapturePayment", mock.Anything, "P1").
		Return(&models.PaymentDetails{ID: "P1", Status: "Captured", Amount: 25}, nil)
	mockAPI.On("GetOrder", mock.Anything, "O1").
		Return(&models.Order{ID: "O1", OrderNumber: 7, Status: models.OrderStatusPaid, Total: 25}, nil)

	var events []Event
	flow := NewFlow(mockAPI, nil, WithObserver(func(e Event) {
		events = append(events, e)
	}))

	// Execute
	order, err := flow.Run(context.Background())

	// Assertions
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, StateConfirmed, flow.CurrentState())
	assert.Equal(t, "O1", flow.OrderID())
	assert.Equal(t, "P1", flow.PaymentID())

	// Strict program order, each call only after the prior resolved
	assert.Equal(t, []string{"CreateOrder", "CreateIntent", "CapturePayment", "GetOrder"}, mockAPI.calls)
	mockAPI.AssertExpectations(t)

	// Progress was reported for every step
	var messages []string
	for _, e := range events {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Order created: #O1")
	assert.Contains(t, messages, "Payment intent created: P1")
	assert.Contains(t, messages, "Payment captured successfully")
}

func TestFlow_FailureAtCreateOrder(t *testing.T) {
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, (*string)(nil)).Return(nil, assert.AnError)

	flow := NewFlow(mockAPI, nil)

	_, err := flow.Run(context.Background())

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCreateOrder, stepErr.Step)
	assert.Equal(t, StateStarted, flow.CurrentState())
	// Nothing past the first step ran
	assert.Equal(t, []string{"CreateOrder"}, mockAPI.calls)
}

func TestFlow_FailureAtCreateIntent(t *testing.T) {
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, (*string)(nil)).
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending}, nil)
	mockAPI.On("CreateIntent", mock.Anything, "O1").Return(nil, assert.AnError)

	flow := NewFlow(mockAPI, nil)

	_, err := flow.Run(context.Background())

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCreateIntent, stepErr.Step)
	assert.Contains(t, err.Error(), "create payment intent")

	// Capture was never invoked
	mockAPI.AssertNotCalled(t, "CapturePayment", mock.Anything, mock.Anything)
	// The order id is kept for retry
	assert.Equal(t, StateCreated, flow.CurrentState())
	assert.Equal(t, "O1", flow.OrderID())
}

func TestFlow_RetryResumesFromFailedStep(t *testing.T) {
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, (*string)(nil)).
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending}, nil).Once()
	mockAPI.On("CreateIntent", mock.Anything, "O1").Return(nil, assert.AnError).Once()
	mockAPI.On("CreateIntent", mock.Anything, "O1").
		Return(&models.PaymentIntent{PaymentID: "P1", OrderID: "O1"}, nil).Once()
	mockAPI.On("CapturePayment", mock.Anything, "P1").
		Return(&models.PaymentDetails{ID: "P1", Status: "Captured"}, nil)
	mockAPI.On("GetOrder", mock.Anything, "O1").
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPaid}, nil)

	flow := NewFlow(mockAPI, nil)

	_, err := flow.Run(context.Background())
	require.Error(t, err)

	order, err := flow.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	// The second run must not create a second order
	assert.Equal(t, []string{"CreateOrder", "CreateIntent", "CreateIntent", "CapturePayment", "GetOrder"}, mockAPI.calls)
}

func TestFlow_FailureAtCapture(t *testing.T) {
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, (*string)(nil)).
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending}, nil)
	mockAPI.On("CreateIntent", mock.Anything, "O1").
		Return(&models.PaymentIntent{PaymentID: "P1", OrderID: "O1"}, nil)
	mockAPI.On("CapturePayment", mock.Anything, "P1").Return(nil, assert.AnError)

	flow := NewFlow(mockAPI, nil)

	_, err := flow.Run(context.Background())

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCapture, stepErr.Step)
	// Intent stays outstanding; identifiers survive for retry
	assert.Equal(t, StateIntentIssued, flow.CurrentState())
	assert.Equal(t, "P1", flow.PaymentID())
	mockAPI.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

func TestFlow_ConfirmRejectsUnpaidOrder(t *testing.T) {
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, (*string)(nil)).
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending}, nil)
	mockAPI.On("CreateIntent", mock.Anything, "O1").
		Return(&models.PaymentIntent{PaymentID: "P1", OrderID: "O1"}, nil)
	mockAPI.On("CapturePayment", mock.Anything, "P1").
		Return(&models.PaymentDetails{ID: "P1", Status: "Captured"}, nil)
	// The capture response alone is not trusted
	mockAPI.On("GetOrder", mock.Anything, "O1").
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending}, nil)

	flow := NewFlow(mockAPI, nil)

	_, err := flow.Run(context.Background())

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepConfirm, stepErr.Step)
	assert.Equal(t, StateCaptured, flow.CurrentState())
}

func TestFlow_PromoCodePassedThrough(t *testing.T) {
	promo := "SAVE10"
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, &promo).
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending, Discount: 10, Total: 90}, nil)
	mockAPI.On("CreateIntent", mock.Anything, "O1").
		Return(&models.PaymentIntent{PaymentID: "P1", OrderID: "O1", Amount: 90}, nil)
	mockAPI.On("CapturePayment", mock.Anything, "P1").
		Return(&models.PaymentDetails{ID: "P1", Status: "Captured"}, nil)
	mockAPI.On("GetOrder", mock.Anything, "O1").
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPaid, Discount: 10, Total: 90}, nil)

	flow := NewFlow(mockAPI, &promo)

	order, err := flow.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, float64(10), order.Discount)
	assert.Equal(t, float64(90), order.Total)
	mockAPI.AssertExpectations(t)
}

func TestFlow_CompletedFlowDoesNotMutateAgain(t *testing.T) {
	mockAPI := new(MockAPI)
	mockAPI.On("CreateOrder", mock.Anything, (*string)(nil)).
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPending}, nil).Once()
	mockAPI.On("CreateIntent", mock.Anything, "O1").
		Return(&models.PaymentIntent{PaymentID: "P1", OrderID: "O1"}, nil).Once()
	mockAPI.On("CapturePayment", mock.Anything, "P1").
		Return(&models.PaymentDetails{ID: "P1", Status: "Captured"}, nil).Once()
	mockAPI.On("GetOrder", mock.Anything, "O1").
		Return(&models.Order{ID: "O1", Status: models.OrderStatusPaid}, nil)

	flow := NewFlow(mockAPI, nil)

	_, err := flow.Run(context.Background())
	require.NoError(t, err)

	// A second Run only re-reads the order
	order, err := flow.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, []string{"CreateOrder", "CreateIntent", "CapturePayment", "GetOrder", "GetOrder"}, mockAPI.calls)
}
