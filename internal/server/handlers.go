package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/atunesdelpacifico/storefront/pkg/backend"
	"github.com/atunesdelpacifico/storefront/pkg/cart"
	"github.com/atunesdelpacifico/storefront/pkg/session"
)

type loginRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", "")
		return
	}

	sess, err := s.gate.Login(r.Context(), req.Identity, req.Secret)
	if err != nil {
		status, message := loginFailure(err)
		writeError(w, status, message, "")
		return
	}

	if err := s.engine.Bind(r.Context(), sess.Identity); err != nil {
		s.log.Warn("cart restore failed after login", "identity", sess.Identity, "error", err)
	}

	writeData(w, http.StatusOK, map[string]any{
		"identity":    sess.Identity,
		"role":        sess.Role,
		"landingPath": session.LandingPathFor(sess),
	})
}

// loginFailure maps a login error to a status and a message specific enough
// for the user to act on: bad credentials, server down, or unreachable.
func loginFailure(err error) (int, string) {
	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		return http.StatusUnauthorized, "incorrect username or password"
	case errors.Is(err, backend.ErrUnreachable):
		return http.StatusServiceUnavailable, "could not reach the sales backend"
	case errors.Is(err, session.ErrIncompleteCredentials):
		return http.StatusBadGateway, "backend returned an incomplete login response"
	default:
		return http.StatusBadGateway, "the sales backend reported an error"
	}
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.gate.Current()
	if sess == nil {
		writeData(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"identity":      sess.Identity,
		"role":          sess.Role,
		"landingPath":   session.LandingPathFor(sess),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Logout(r.Context()); err != nil {
		s.log.Warn("clearing stored session failed", "error", err)
	}
	s.engine.Unbind()
	s.backend.ClearToken()
	writeData(w, http.StatusOK, map[string]any{"authenticated": false})
}

type cartItemRequest struct {
	ProductID  string          `json:"productId"`
	VariantKey string          `json:"variantKey"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Batch      *cart.BatchRef  `json:"batch,omitempty"`
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", "")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	updated, err := s.engine.AddItem(r.Context(), req.ProductID, req.VariantKey, req.UnitPrice, req.Quantity, req.Batch)
	s.respondCart(w, updated, err)
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", "")
		return
	}

	updated, err := s.engine.UpdateQuantity(r.Context(), req.ProductID, req.VariantKey, req.Quantity)
	s.respondCart(w, updated, err)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", "")
		return
	}

	updated, err := s.engine.RemoveItem(r.Context(), req.ProductID, req.VariantKey)
	s.respondCart(w, updated, err)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	updated, err := s.engine.Clear(r.Context())
	s.respondCart(w, updated, err)
}

func (s *Server) handleCartSummary(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"cart":    s.engine.Cart(),
		"summary": s.engine.Summary(),
	})
}

// respondCart reports a cart mutation's outcome. A stock failure returns
// the actual availability so the user can adjust; a persistence failure
// still returns the applied cart, flagged as not persisted.
func (s *Server) respondCart(w http.ResponseWriter, updated cart.Cart, err error) {
	persisted := true
	switch {
	case err == nil:
	case errors.Is(err, cart.ErrPersistenceUnavailable):
		persisted = false
	case errors.Is(err, cart.ErrInsufficientBatchStock):
		var stockErr *cart.BatchStockError
		body := map[string]any{"success": false, "message": err.Error()}
		if errors.As(err, &stockErr) {
			body["available"] = stockErr.Available
			body["batchCode"] = stockErr.BatchCode
		}
		writeJSON(w, http.StatusConflict, body)
		return
	case errors.Is(err, cart.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "authentication required", session.PathLogin)
		return
	default:
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"cart":      updated,
		"summary":   s.engine.Summary(),
		"persisted": persisted,
	})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	if len(snap.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty", "")
		return
	}

	// Re-read availability for batch-pinned lines right before submitting;
	// stock may have been depleted by other shoppers since add time.
	for _, line := range snap.Lines {
		if line.BatchCode == "" {
			continue
		}
		fresh, err := s.backend.BatchAvailability(r.Context(), line.ProductID, line.VariantKey)
		if err != nil {
			writeError(w, http.StatusBadGateway, "could not verify batch availability", "")
			return
		}
		available := 0
		if fresh != nil {
			available = fresh.Available
		}
		if available < line.Quantity {
			writeJSON(w, http.StatusConflict, map[string]any{
				"success":   false,
				"message":   "insufficient batch stock",
				"productId": line.ProductID,
				"available": available,
			})
			return
		}
	}

	receipt, err := s.backend.SubmitOrder(r.Context(), snap)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, backend.ErrUnreachable) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "order submission failed: "+err.Error(), "")
		return
	}

	if _, err := s.engine.Clear(r.Context()); err != nil {
		s.log.Warn("clearing cart after checkout failed", "error", err)
	}

	writeData(w, http.StatusCreated, map[string]any{
		"orderId":     receipt.OrderID,
		"orderNumber": receipt.OrderNumber,
	})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	sess := s.gate.Current()
	orders, err := s.backend.OrdersForClient(r.Context(), sess.Identity)
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not fetch order history", "")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"orders": orders})
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message, redirect string) {
	body := map[string]any{"success": false, "message": message}
	if redirect != "" {
		body["redirect"] = redirect
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
