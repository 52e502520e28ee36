package checkout_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theanh205-kkt/webdt/checkout"
	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/session"
	"github.com/theanh205-kkt/webdt/store"
	"github.com/theanh205-kkt/webdt/store/storetest"
)

var shopper = session.Identity{UserID: 7, Email: "a@shop.vn", FullName: "Nguyen Van A", Role: models.RoleUser}

func newManager(t *testing.T) (*checkout.Manager, *storetest.Server) {
	t.Helper()
	srv := storetest.New()
	t.Cleanup(srv.Close)
	cache := store.NewCache(store.NewClient(srv.URL, zerolog.Nop()))
	return checkout.NewManager(cache, zerolog.Nop()), srv
}

func seedCart(srv *storetest.Server) {
	srv.Seed(store.Cart,
		storetest.Row{"id": 1, "productId": 10, "name": "Keyboard", "price": 100000.0, "quantity": 2, "image": "kb.jpg"},
		storetest.Row{"id": 2, "productId": 11, "name": "Mouse", "price": 50000.0, "quantity": 1, "image": "m.jpg"},
	)
}

func toPayment(t *testing.T, m *checkout.Manager, srv *storetest.Server) {
	t.Helper()
	require.NoError(t, m.Proceed(context.Background(), shopper))
	form := checkout.ShippingForm{FullName: "Nguyen Van A", Phone: "0912345678", Address: "12 Ly Thuong Kiet", Note: "call first"}
	require.NoError(t, m.Flow(shopper.UserID).SubmitShipping(form))
}

func TestProceedRequiresAuthentication(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)

	err := m.Proceed(context.Background(), session.Identity{})
	assert.ErrorIs(t, err, checkout.ErrNotAuthenticated)
}

func TestProceedRequiresNonEmptyCart(t *testing.T) {
	m, _ := newManager(t)

	err := m.Proceed(context.Background(), shopper)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, checkout.StageCart, m.Flow(shopper.UserID).State().Stage)
}

func TestProceedPrefillsFromUserRecord(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)
	srv.Seed(store.Users, storetest.Row{"id": 7, "email": "a@shop.vn", "fullName": "Nguyen Van A", "phone": "0911222333", "role": "user"})

	require.NoError(t, m.Proceed(context.Background(), shopper))

	state := m.Flow(shopper.UserID).State()
	assert.Equal(t, checkout.StageShipping, state.Stage)
	assert.Equal(t, "Nguyen Van A", state.Shipping.FullName)
	assert.Equal(t, "0911222333", state.Shipping.Phone)
}

func TestSubmitComputesSnapshotTotal(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)
	// The live product price differs from the cart snapshot; the snapshot wins.
	srv.Seed(store.Products, storetest.Row{"id": 10, "name": "Keyboard", "price": 999999.0, "quantity": 5})
	toPayment(t, m, srv)

	order, err := m.Submit(context.Background(), shopper, models.PaymentCOD)
	require.NoError(t, err)

	assert.Equal(t, 250000.0, order.TotalAmount) // 100000*2 + 50000*1
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)
	assert.Equal(t, 7, order.UserID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10, order.Items[0].ProductID)
	assert.Equal(t, "call first", order.CustomerInfo.Note)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)
}

func TestSubmitCreatesOrderThenClearsCartInOrder(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)
	toPayment(t, m, srv)

	_, err := m.Submit(context.Background(), shopper, models.PaymentBanking)
	require.NoError(t, err)

	assert.Empty(t, srv.Rows(store.Cart))
	assert.Len(t, srv.Rows(store.Orders), 1)

	// The create precedes the deletes, and deletes run in cart order.
	var mutations []string
	for _, line := range srv.Requests() {
		if strings.HasPrefix(line, "POST /orders") || strings.HasPrefix(line, "DELETE /cart") {
			mutations = append(mutations, line)
		}
	}
	assert.Equal(t, []string{"POST /orders", "DELETE /cart/1", "DELETE /cart/2"}, mutations)

	// Success resets the flow for the next purchase.
	state := m.Flow(shopper.UserID).State()
	assert.Equal(t, checkout.StageCart, state.Stage)
	assert.Equal(t, checkout.ShippingForm{}, state.Shipping)
}

func TestSubmitPartialCartClearLeavesOrder(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)
	toPayment(t, m, srv)

	srv.FailOn = func(method, path string) int {
		if method == http.MethodDelete && path == "/cart/2" {
			return http.StatusInternalServerError
		}
		return 0
	}

	_, err := m.Submit(context.Background(), shopper, models.PaymentCOD)
	require.Error(t, err)

	// The order was committed and the first item deleted; no compensation.
	assert.Len(t, srv.Rows(store.Orders), 1)
	require.Len(t, srv.Rows(store.Cart), 1)
	assert.Equal(t, 2, storetestRowID(srv.Rows(store.Cart)[0]))

	// The flow stays at payment so the shopper can retry.
	assert.Equal(t, checkout.StagePayment, m.Flow(shopper.UserID).State().Stage)
}

func TestSubmitFailedCreateAllowsRetry(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)
	toPayment(t, m, srv)

	fail := true
	srv.FailOn = func(method, path string) int {
		if fail && method == http.MethodPost && path == "/orders" {
			return http.StatusInternalServerError
		}
		return 0
	}

	_, err := m.Submit(context.Background(), shopper, models.PaymentCOD)
	require.Error(t, err)
	assert.Empty(t, srv.Rows(store.Orders))
	assert.Equal(t, checkout.StagePayment, m.Flow(shopper.UserID).State().Stage)

	fail = false
	order, err := m.Submit(context.Background(), shopper, models.PaymentCOD)
	require.NoError(t, err)
	assert.Equal(t, 250000.0, order.TotalAmount)
}

func TestSubmitRequiresPaymentStage(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)

	_, err := m.Submit(context.Background(), shopper, models.PaymentCOD)
	assert.ErrorIs(t, err, checkout.ErrWrongStage)
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Submit(context.Background(), session.Identity{}, models.PaymentCOD)
	assert.ErrorIs(t, err, checkout.ErrNotAuthenticated)
}

func TestSubmitSuppressesConcurrentDuplicate(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)
	toPayment(t, m, srv)

	release := make(chan struct{})
	entered := make(chan struct{})
	srv.FailOn = func(method, path string) int {
		if method == http.MethodPost && path == "/orders" {
			close(entered)
			<-release
		}
		return 0
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.Submit(context.Background(), shopper, models.PaymentCOD)
		done <- err
	}()

	<-entered // first submission is mid-flight
	_, err := m.Submit(context.Background(), shopper, models.PaymentCOD)
	assert.ErrorIs(t, err, checkout.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, srv.Rows(store.Orders), 1)
}

func TestResetDiscardsFlow(t *testing.T) {
	m, srv := newManager(t)
	seedCart(srv)
	toPayment(t, m, srv)

	m.Reset(shopper.UserID)
	assert.Equal(t, checkout.StageCart, m.Flow(shopper.UserID).State().Stage)
}

func storetestRowID(row storetest.Row) int {
	switch v := row["id"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return -1
}
