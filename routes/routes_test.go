package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theanh205-kkt/webdt/checkout"
	orderControllers "github.com/theanh205-kkt/webdt/controllers/order"
	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/routes"
	"github.com/theanh205-kkt/webdt/session"
	"github.com/theanh205-kkt/webdt/store"
	"github.com/theanh205-kkt/webdt/store/storetest"
)

type app struct {
	router   *gin.Engine
	srv      *storetest.Server
	sessions *session.Manager
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := storetest.New()
	t.Cleanup(srv.Close)

	client := store.NewClient(srv.URL, zerolog.Nop())
	cache := store.NewCache(client)
	sessions := session.NewManager("test-secret", time.Hour)

	r := gin.New()
	routes.SetupRoutes(r, routes.Deps{
		Client:   client,
		Store:    cache,
		Sessions: sessions,
		Checkout: checkout.NewManager(cache, zerolog.Nop()),
		OrderHub: orderControllers.NewHub(),
	})
	return &app{router: r, srv: srv, sessions: sessions}
}

func (a *app) token(t *testing.T, ident session.Identity) string {
	t.Helper()
	token, err := a.sessions.Issue(ident)
	require.NoError(t, err)
	return token
}

func (a *app) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

var (
	shopperIdent = session.Identity{UserID: 7, Email: "a@shop.vn", FullName: "Nguyen Van A", Role: models.RoleUser}
	adminIdent   = session.Identity{UserID: 1, Email: "admin@shop.vn", FullName: "Admin", Role: models.RoleAdmin}
)

func TestLoginUnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Users, storetest.Row{"id": 7, "email": "a@shop.vn", "password": "secret", "fullName": "A", "role": "user"})

	unknown := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@shop.vn", "password": "whatever"})
	wrongPass := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "a@shop.vn", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestLoginSuccessIssuesUsableToken(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Users, storetest.Row{"id": 7, "email": "a@shop.vn", "password": "secret", "fullName": "Nguyen Van A", "role": "user"})

	w := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": "a@shop.vn", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string           `json:"token"`
		User  session.Identity `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.User.UserID)

	profile := a.do(http.MethodGet, "/user/", resp.Token, nil)
	assert.Equal(t, http.StatusOK, profile.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Users, storetest.Row{"id": 7, "email": "a@shop.vn", "password": "secret", "fullName": "A", "role": "user"})

	w := a.do(http.MethodPost, "/auth/register", "", gin.H{"email": "a@shop.vn", "password": "x", "fullName": "A"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/auth/register", "", gin.H{"email": "new@shop.vn", "password": "x", "fullName": "B"})
	require.Equal(t, http.StatusCreated, w.Code)

	rows := a.srv.Rows(store.Users)
	require.Len(t, rows, 2)
	assert.Equal(t, "user", rows[1]["role"])
}

func TestCatalogFilterEndpoint(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Products,
		storetest.Row{"id": 1, "name": "Keyboard", "price": 150000.0, "categoryID": 2},
		storetest.Row{"id": 2, "name": "Shirt", "price": 120000.0, "categoryID": 5},
	)

	w := a.do(http.MethodGet, "/products?category=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)
}

func TestCartRequiresToken(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/user/cart/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddToCartMergesByProduct(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Products, storetest.Row{"id": 10, "name": "Keyboard", "price": 150000.0, "quantity": 9, "image": "kb.jpg"})
	token := a.token(t, shopperIdent)

	w := a.do(http.MethodPost, "/user/cart/", token, gin.H{"productId": 10, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, a.srv.Rows(store.Cart), 1)

	// Same product again: quantity bumps, still one row.
	w = a.do(http.MethodPost, "/user/cart/", token, gin.H{"productId": 10, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	rows := a.srv.Rows(store.Cart)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(5), rows[0]["quantity"])
	assert.Equal(t, 1, a.srv.CountRequests("POST /cart"), "merge must not create a second row")
}

func TestAddToCartRefusesOverStock(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Products, storetest.Row{"id": 10, "name": "Keyboard", "price": 150000.0, "quantity": 3})
	token := a.token(t, shopperIdent)

	w := a.do(http.MethodPost, "/user/cart/", token, gin.H{"productId": 10, "quantity": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, a.srv.Rows(store.Cart))
}

func TestCartSnapshotSurvivesProductEdit(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Products, storetest.Row{"id": 10, "name": "Keyboard", "price": 150000.0, "quantity": 9, "image": "kb.jpg", "description": "", "categoryID": 2})
	shopperToken := a.token(t, shopperIdent)
	adminToken := a.token(t, adminIdent)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/user/cart/", shopperToken, gin.H{"productId": 10, "quantity": 1}).Code)

	edit := models.ProductInput{Name: "Keyboard Pro", Price: 175000, Quantity: 9, CategoryID: 2}
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/admin/products/10", adminToken, edit).Code)

	rows := a.srv.Rows(store.Cart)
	require.Len(t, rows, 1)
	assert.Equal(t, "Keyboard", rows[0]["name"])
	assert.Equal(t, 150000.0, rows[0]["price"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	a := newApp(t)
	token := a.token(t, shopperIdent)

	w := a.do(http.MethodGet, "/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteAdminUserRefusedWithoutStoreCall(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Users,
		storetest.Row{"id": 1, "email": "admin@shop.vn", "password": "x", "fullName": "Admin", "role": "admin"},
		storetest.Row{"id": 7, "email": "a@shop.vn", "password": "x", "fullName": "A", "role": "user"},
	)
	token := a.token(t, adminIdent)

	w := a.do(http.MethodDelete, "/admin/users/1", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, a.srv.CountRequests("DELETE /users/1"))
	assert.Len(t, a.srv.Rows(store.Users), 2)

	w = a.do(http.MethodDelete, "/admin/users/7", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, a.srv.CountRequests("DELETE /users/7"))

	// The next listing reflects the deletion (cache invalidated).
	list := a.do(http.MethodGet, "/admin/users", token, nil)
	var users []models.PublicUser
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}

func TestOrderStatusFreeTransition(t *testing.T) {
	a := newApp(t)
	created := time.Now().UTC().Add(-time.Hour)
	a.srv.Seed(store.Orders, storetest.Row{
		"id": 4, "userId": 7, "items": []storetest.Row{}, "totalAmount": 250000.0,
		"status": "pending", "createdAt": created, "updatedAt": created,
	})
	token := a.token(t, adminIdent)

	// Straight from pending to delivered; no intermediate steps required.
	w := a.do(http.MethodPatch, "/admin/orders/4/status", token, gin.H{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code)

	rows := a.srv.Rows(store.Orders)
	require.Len(t, rows, 1)
	assert.Equal(t, "delivered", rows[0]["status"])
	assert.NotEqual(t, rows[0]["createdAt"], rows[0]["updatedAt"])

	// And back again.
	w = a.do(http.MethodPatch, "/admin/orders/4/status", token, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPatch, "/admin/orders/4/status", token, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown status is refused")
}

func TestOrderHistoryOnlyOwnOrdersNewestFirst(t *testing.T) {
	a := newApp(t)
	now := time.Now().UTC()
	a.srv.Seed(store.Orders,
		storetest.Row{"id": 1, "userId": 7, "items": []storetest.Row{}, "totalAmount": 1.0, "status": "pending", "createdAt": now.Add(-2 * time.Hour), "updatedAt": now},
		storetest.Row{"id": 2, "userId": 8, "items": []storetest.Row{}, "totalAmount": 2.0, "status": "pending", "createdAt": now.Add(-1 * time.Hour), "updatedAt": now},
		storetest.Row{"id": 3, "userId": 7, "items": []storetest.Row{}, "totalAmount": 3.0, "status": "pending", "createdAt": now, "updatedAt": now},
	)
	token := a.token(t, shopperIdent)

	w := a.do(http.MethodGet, "/user/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, 3, orders[0].ID)
	assert.Equal(t, 1, orders[1].ID)
}

func TestCheckoutEndToEnd(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Users, storetest.Row{"id": 7, "email": "a@shop.vn", "password": "x", "fullName": "Nguyen Van A", "phone": "0912345678", "role": "user"})
	a.srv.Seed(store.Cart,
		storetest.Row{"id": 1, "productId": 10, "name": "Keyboard", "price": 100000.0, "quantity": 2, "image": "kb.jpg"},
		storetest.Row{"id": 2, "productId": 11, "name": "Mouse", "price": 50000.0, "quantity": 1, "image": "m.jpg"},
	)
	token := a.token(t, shopperIdent)

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/user/checkout/proceed", token, nil).Code)

	shipping := gin.H{"fullName": "Nguyen Van A", "phone": "0912345678", "address": "12 Ly Thuong Kiet"}
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/user/checkout/shipping", token, shipping).Code)

	w := a.do(http.MethodPost, "/user/checkout/submit", token, gin.H{"paymentMethod": "cod"})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, 250000.0, order.TotalAmount)
	assert.Empty(t, a.srv.Rows(store.Cart))
}

func TestCheckoutShippingValidationErrors(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Cart, storetest.Row{"id": 1, "productId": 10, "name": "Keyboard", "price": 100000.0, "quantity": 1})
	token := a.token(t, shopperIdent)

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/user/checkout/proceed", token, nil).Code)

	w := a.do(http.MethodPost, "/user/checkout/shipping", token, gin.H{"fullName": "A", "phone": "12345", "address": "HN"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "phone")
}

func TestCheckoutProceedEmptyCart(t *testing.T) {
	a := newApp(t)
	token := a.token(t, shopperIdent)

	w := a.do(http.MethodPost, "/user/checkout/proceed", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutProceedUnauthenticated(t *testing.T) {
	a := newApp(t)
	a.srv.Seed(store.Cart, storetest.Row{"id": 1, "productId": 10, "name": "Keyboard", "price": 100000.0, "quantity": 1})

	w := a.do(http.MethodPost, "/user/checkout/proceed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
