package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/checkout"
	orderControllers "github.com/theanh205-kkt/webdt/controllers/order"
	"github.com/theanh205-kkt/webdt/session"
	"github.com/theanh205-kkt/webdt/store"
)

// Deps bundles everything the handlers need. The raw Client is used only
// where a read must bypass the cache (login's email lookup); all other data
// access goes through the cached store.
type Deps struct {
	Client   *store.Client
	Store    *store.Cache
	Sessions *session.Manager
	Checkout *checkout.Manager
	OrderHub *orderControllers.Hub
}

// SetupRoutes is the single entry-point that wires up the public, user and
// admin route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public routes (no middleware)
	SetupAuthRoutes(r, deps)

	// User routes (token-protected)
	SetupUserRoutes(r, deps)

	// Admin routes (token + admin role)
	SetupAdminRoutes(r, deps)

	// Order management + live feed
	SetupOrderRoutes(r, deps)
}
