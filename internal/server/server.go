// Package server exposes the storefront core over a JSON API for the
// rendering layer: session login/logout, cart mutation and summary, and
// checkout. Every protected route consults the session gate's single
// authorization rule and maps its decision to HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/atunesdelpacifico/storefront/pkg/backend"
	"github.com/atunesdelpacifico/storefront/pkg/cart"
	"github.com/atunesdelpacifico/storefront/pkg/session"
)

// Backend is the subset of the backend client the facade drives directly.
type Backend interface {
	BatchAvailability(ctx context.Context, productID, variant string) (*backend.Batch, error)
	SubmitOrder(ctx context.Context, snap cart.Snapshot) (backend.OrderReceipt, error)
	OrdersForClient(ctx context.Context, identity string) ([]backend.Order, error)
	ClearToken()
}

// Server is the storefront JSON facade.
type Server struct {
	gate    *session.Gate
	engine  *cart.Engine
	backend Backend
	log     *slog.Logger
	mux     *http.ServeMux
}

// New creates the facade over an assembled gate, cart engine, and backend
// client.
func New(gate *session.Gate, engine *cart.Engine, b Backend, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		gate:    gate,
		engine:  engine,
		backend: b,
		log:     log,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/session/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/session", s.handleSession)
	s.mux.HandleFunc("POST /api/session/logout", s.require("", s.handleLogout))

	s.mux.HandleFunc("GET /api/cart", s.require("", s.handleCartSummary))
	s.mux.HandleFunc("POST /api/cart/items", s.require("", s.handleCartAdd))
	s.mux.HandleFunc("PUT /api/cart/items", s.require("", s.handleCartUpdate))
	s.mux.HandleFunc("DELETE /api/cart/items", s.require("", s.handleCartRemove))
	s.mux.HandleFunc("DELETE /api/cart", s.require("", s.handleCartClear))

	s.mux.HandleFunc("POST /api/checkout", s.require("", s.handleCheckout))
	s.mux.HandleFunc("GET /api/orders", s.require("", s.handleOrders))
}

// Handler returns the facade's root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return Chain(s.mux, RequestLogger(s.log))
}

// require gates a handler on the session gate's authorization decision. An
// empty role means any authenticated session is sufficient.
func (s *Server) require(role session.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch session.Authorize(s.gate.Current(), role) {
		case session.RedirectToLogin:
			writeError(w, http.StatusUnauthorized, "authentication required", session.PathLogin)
		case session.RedirectToHome:
			writeError(w, http.StatusForbidden, "insufficient role", session.PathHome)
		default:
			next(w, r)
		}
	}
}
