package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/session"
	"github.com/theanh205-kkt/webdt/store"
)

// Manager holds one Flow per user and runs the transitions that touch the
// backing store. Flows live in memory only; a restart sends every shopper
// back to their cart, which is itself durable in the store.
type Manager struct {
	store *store.Cache
	log   zerolog.Logger

	mu    sync.Mutex
	flows map[int]*Flow
}

func NewManager(st *store.Cache, log zerolog.Logger) *Manager {
	return &Manager{
		store: st,
		log:   log.With().Str("component", "checkout").Logger(),
		flows: make(map[int]*Flow),
	}
}

// Flow returns the user's flow, creating it at the cart stage on first use.
func (m *Manager) Flow(userID int) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[userID]
	if !ok {
		f = newFlow()
		m.flows[userID] = f
	}
	return f
}

// Proceed moves cart -> shipping. It requires an authenticated shopper and a
// non-empty cart; failing either guard leaves the flow where it is. The
// shipping form is prefilled from the user record on first entry.
func (m *Manager) Proceed(ctx context.Context, ident session.Identity) error {
	if ident.UserID == 0 {
		return ErrNotAuthenticated
	}
	flow := m.Flow(ident.UserID)
	if !flow.stageIs(StageCart) {
		return ErrWrongStage
	}

	var items []models.CartItem
	if err := m.store.List(ctx, store.Cart, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrEmptyCart
	}

	prefill := ShippingForm{FullName: ident.FullName}
	var user models.User
	if err := m.store.Get(ctx, store.Users, ident.UserID, &user); err == nil {
		prefill.FullName = user.FullName
		prefill.Phone = user.Phone
	}

	flow.advanceToShipping(prefill)
	return nil
}

// Submit is the terminal transition. The order create is the commit point;
// clearing the cart afterwards is best-effort, one delete per item in cart
// order, with no compensation if a delete fails partway. A transport error
// on the create leaves the flow in the payment stage for retry, which can
// duplicate an order the store actually committed.
func (m *Manager) Submit(ctx context.Context, ident session.Identity, method models.PaymentMethod) (models.Order, error) {
	if ident.UserID == 0 {
		return models.Order{}, ErrNotAuthenticated
	}
	flow := m.Flow(ident.UserID)
	if err := flow.beginSubmit(); err != nil {
		return models.Order{}, err
	}
	succeeded := false
	defer func() { flow.endSubmit(succeeded) }()

	var items []models.CartItem
	if err := m.store.List(ctx, store.Cart, &items); err != nil {
		return models.Order{}, err
	}
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	shipping := flow.State().Shipping
	now := time.Now().UTC()
	draft := models.Order{
		UserID: ident.UserID,
		Items:  orderItems(items),
		CustomerInfo: models.CustomerInfo{
			FullName: shipping.FullName,
			Phone:    shipping.Phone,
			Address:  shipping.Address,
			Note:     shipping.Note,
		},
		PaymentMethod: method,
		TotalAmount:   models.CartTotal(items),
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created models.Order
	if err := m.store.Create(ctx, store.Orders, orderPayload(draft), &created); err != nil {
		return models.Order{}, err
	}
	m.log.Info().Int("order_id", created.ID).Int("user_id", ident.UserID).
		Float64("total", created.TotalAmount).Msg("order placed")

	for _, item := range items {
		if err := m.store.Remove(ctx, store.Cart, item.ID); err != nil {
			m.log.Error().Err(err).Int("cart_item_id", item.ID).Int("order_id", created.ID).
				Msg("cart left partially cleared after order create")
			return created, err
		}
	}

	succeeded = true
	return created, nil
}

// Reset discards the user's flow, e.g. at logout.
func (m *Manager) Reset(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, userID)
}

func orderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	for i, item := range items {
		out[i] = models.OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		}
	}
	return out
}

// orderPayload strips the id so the store assigns one.
func orderPayload(o models.Order) map[string]any {
	return map[string]any{
		"userId":        o.UserID,
		"items":         o.Items,
		"customerInfo":  o.CustomerInfo,
		"paymentMethod": o.PaymentMethod,
		"totalAmount":   o.TotalAmount,
		"status":        o.Status,
		"createdAt":     o.CreatedAt,
		"updatedAt":     o.UpdatedAt,
	}
}

// IsFlowError reports whether err is a checkout-level refusal rather than a
// store failure, so handlers can pick the right status code.
func IsFlowError(err error) bool {
	var fieldErrs FieldErrors
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrWrongStage) ||
		errors.Is(err, ErrSubmitInFlight) ||
		errors.As(err, &fieldErrs)
}
