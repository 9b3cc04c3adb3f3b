package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracemedia/storefront/internal/cart"
	"github.com/gracemedia/storefront/internal/catalog"
	"github.com/gracemedia/storefront/internal/customer"
	"github.com/gracemedia/storefront/internal/gateway"
	"github.com/gracemedia/storefront/internal/orders"
	"github.com/gracemedia/storefront/internal/pricing"
)

type mockRepo struct {
	sessions map[uuid.UUID]*Session
}

func newMockRepo() *mockRepo {
	return &mockRepo{sessions: make(map[uuid.UUID]*Session)}
}

func (m *mockRepo) CreateSession(_ context.Context, s *Session) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *mockRepo) GetSession(_ context.Context, id uuid.UUID) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Status = status
	return nil
}

func (m *mockRepo) SetPayment(_ context.Context, id uuid.UUID, status Status, paymentID string) error {
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Status = status
	s.PaymentID = paymentID
	return nil
}

func (m *mockRepo) SetFailure(_ context.Context, id uuid.UUID, reason string) error {
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Status = StatusFailed
	s.FailureReason = reason
	return nil
}

type mockCart struct {
	cart    *cart.Cart
	cleared bool
	err     error
}

func (m *mockCart) GetCart(context.Context, string) (*cart.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockCart) Clear(context.Context, string) error {
	m.cleared = true
	m.cart.Lines = nil
	return nil
}

type mockGateway struct {
	name       string
	orderErr   error
	captureErr error
	captured   []string
}

func (m *mockGateway) Name() string { return m.name }

func (m *mockGateway) CreateOrder(_ context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	return &gateway.Order{
		Gateway:        m.name,
		GatewayOrderID: "gw_order_1",
		Amount:         req.Amount,
		Currency:       req.Currency,
	}, nil
}

func (m *mockGateway) Capture(_ context.Context, id string) (string, error) {
	if m.captureErr != nil {
		return "", m.captureErr
	}
	m.captured = append(m.captured, id)
	return "pay_" + id, nil
}

type mockGateways struct {
	gw  *mockGateway
	err error
}

func (m *mockGateways) ForCurrency(string) (gateway.Gateway, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.gw, nil
}

type mockOrderStore struct {
	created *orders.Order
	err     error
}

func (m *mockOrderStore) CreateOrderWithItems(_ context.Context, o *orders.Order) error {
	if m.err != nil {
		return m.err
	}
	m.created = o
	return nil
}

type mockOutbox struct {
	events []string
	err    error
}

func (m *mockOutbox) Insert(_ context.Context, eventType string, _ []byte) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, eventType)
	return nil
}

type fixture struct {
	svc    *Service
	repo   *mockRepo
	cart   *mockCart
	gw     *mockGateway
	gws    *mockGateways
	orders *mockOrderStore
	outbox *mockOutbox
}

func newFixture() *fixture {
	f := &fixture{
		repo: newMockRepo(),
		cart: &mockCart{cart: &cart.Cart{
			UserID:   "user1",
			Currency: catalog.CurrencyINR,
			Lines: []cart.Line{
				{BookID: "b1", Title: "The Upper Room", Price: 120, Quantity: 2, Stock: 5},
				{BookID: "b2", Title: "Daily Bread", Price: 250, Quantity: 1, Stock: 5},
			},
		}},
		gw:     &mockGateway{name: gateway.NameRazorpay},
		orders: &mockOrderStore{},
		outbox: &mockOutbox{},
	}
	f.gws = &mockGateways{gw: f.gw}
	cfg := pricing.Config{TaxEnabled: true, TaxRate: 0.05, PackagingPerUnit: 20, HomeState: "Tamil Nadu"}
	f.svc = NewService(f.repo, f.cart, f.gws, f.orders, f.outbox, cfg)
	return f
}

func details() customer.Details {
	return customer.Details{
		Name:    "Arul Raj",
		Email:   "arul@example.com",
		Phone:   "9876543210",
		Address: "12 Church Street",
		City:    "Chennai",
		State:   "Tamil Nadu",
		Country: "India",
		Pincode: "600001",
	}
}

func TestInitiate_EmptyCart(t *testing.T) {
	f := newFixture()
	f.cart.cart.Lines = nil

	_, err := f.svc.Initiate(context.Background(), "user1", details())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.repo.sessions)
}

func TestInitiate_InvalidDetails(t *testing.T) {
	f := newFixture()
	d := details()
	d.Email = ""

	_, err := f.svc.Initiate(context.Background(), "user1", d)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email is required", vErr.First)
	assert.Empty(t, f.repo.sessions) // no TRN, no session
}

func TestInitiate_GatewayDisabled(t *testing.T) {
	f := newFixture()
	f.gws.err = gateway.ErrGatewayDisabled

	_, err := f.svc.Initiate(context.Background(), "user1", details())
	assert.ErrorIs(t, err, gateway.ErrGatewayDisabled)
	assert.Empty(t, f.repo.sessions)
}

func TestInitiate_Success(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Initiate(context.Background(), "user1", details())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.TRN, "TRN-"))
	assert.Equal(t, "gw_order_1", result.GatewayOrder.GatewayOrderID)

	// subtotal 490 + packaging 60 + 5% GST on 490
	assert.Equal(t, 490.0, result.Totals.Subtotal)
	assert.Equal(t, 60.0, result.Totals.Packaging)
	assert.Equal(t, 24.5, result.Totals.Tax.Total)
	assert.Equal(t, 574.5, result.Totals.Total)

	session := f.repo.sessions[result.SessionID]
	require.NotNil(t, session)
	assert.Equal(t, StatusAwaitingPayment, session.Status)
	assert.Equal(t, gateway.NameRazorpay, session.Gateway)
	require.Len(t, session.Snapshot.Lines, 2)
	assert.Equal(t, "b1", session.Snapshot.Lines[0].BookID)
}

func TestInitiate_GatewayOrderFailure(t *testing.T) {
	f := newFixture()
	f.gw.orderErr = errors.New("network down")

	_, err := f.svc.Initiate(context.Background(), "user1", details())
	assert.Error(t, err)
	assert.Empty(t, f.repo.sessions)
}

func initiated(t *testing.T, f *fixture) uuid.UUID {
	t.Helper()
	result, err := f.svc.Initiate(context.Background(), "user1", details())
	require.NoError(t, err)
	return result.SessionID
}

func TestConfirmPayment_Success(t *testing.T) {
	f := newFixture()
	id := initiated(t, f)

	order, err := f.svc.ConfirmPayment(context.Background(), id, "rzp_pay_99")
	require.NoError(t, err)

	assert.Equal(t, orders.StatusPaid, order.Status)
	assert.Equal(t, "pay_rzp_pay_99", order.PaymentID)
	assert.Equal(t, gateway.NameRazorpay, order.PaymentMethod)
	assert.Equal(t, 574.5, order.Total)
	assert.Equal(t, 12.25, order.CGST) // intra-state split
	assert.Equal(t, 12.25, order.SGST)
	assert.Equal(t, 0.0, order.IGST)

	// Items follow cart order with price-at-purchase
	require.Len(t, order.Items, 2)
	assert.Equal(t, "b1", order.Items[0].BookID)
	assert.Equal(t, 120.0, order.Items[0].Price)

	assert.Equal(t, StatusCompleted, f.repo.sessions[id].Status)
	assert.Equal(t, "pay_rzp_pay_99", f.repo.sessions[id].PaymentID)
	assert.True(t, f.cart.cleared)
	assert.Equal(t, []string{EventOrderCompleted}, f.outbox.events)
}

func TestConfirmPayment_OutboxFailureDoesNotBlockSuccess(t *testing.T) {
	f := newFixture()
	f.outbox.err = errors.New("db down")
	id := initiated(t, f)

	order, err := f.svc.ConfirmPayment(context.Background(), id, "rzp_pay_99")
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, StatusCompleted, f.repo.sessions[id].Status)
}

func TestConfirmPayment_OrderCreationFailureFailsSession(t *testing.T) {
	f := newFixture()
	f.orders.err = errors.New("insert failed")
	id := initiated(t, f)

	_, err := f.svc.ConfirmPayment(context.Background(), id, "rzp_pay_99")
	assert.Error(t, err)
	assert.Equal(t, StatusFailed, f.repo.sessions[id].Status)
	assert.Contains(t, f.repo.sessions[id].FailureReason, "order creation failed")
	assert.False(t, f.cart.cleared)
}

func TestConfirmPayment_CaptureFailure(t *testing.T) {
	f := newFixture()
	f.gw.captureErr = errors.New("declined")
	id := initiated(t, f)

	_, err := f.svc.ConfirmPayment(context.Background(), id, "pp_order_1")
	assert.Error(t, err)
	assert.Equal(t, StatusFailed, f.repo.sessions[id].Status)
}

func TestConfirmPayment_TwiceIsIllegal(t *testing.T) {
	f := newFixture()
	id := initiated(t, f)

	_, err := f.svc.ConfirmPayment(context.Background(), id, "rzp_pay_99")
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(context.Background(), id, "rzp_pay_99")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCancelPayment_PreservesCart(t *testing.T) {
	f := newFixture()
	id := initiated(t, f)

	require.NoError(t, f.svc.CancelPayment(context.Background(), id))

	assert.Equal(t, StatusCancelled, f.repo.sessions[id].Status)
	assert.False(t, f.cart.cleared)
	assert.NotEmpty(t, f.cart.cart.Lines)
	assert.Nil(t, f.orders.created) // no order row for a cancelled payment
}

func TestCancelPayment_AfterCompletionIsIllegal(t *testing.T) {
	f := newFixture()
	id := initiated(t, f)

	_, err := f.svc.ConfirmPayment(context.Background(), id, "rzp_pay_99")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.CancelPayment(context.Background(), id), ErrIllegalTransition)
}

func TestFailPayment_RecordsReason(t *testing.T) {
	f := newFixture()
	id := initiated(t, f)

	require.NoError(t, f.svc.FailPayment(context.Background(), id, "card declined"))
	assert.Equal(t, StatusFailed, f.repo.sessions[id].Status)
	assert.Equal(t, "card declined", f.repo.sessions[id].FailureReason)
	assert.NotEmpty(t, f.cart.cart.Lines)
}

func TestCancelPayment_UnknownSession(t *testing.T) {
	f := newFixture()
	err := f.svc.CancelPayment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
