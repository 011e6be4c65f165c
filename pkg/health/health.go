// Package health tracks serving readiness and exposes the probe endpoints.
// The storefront is not ready until its store is open and the stored session
// has been restored; it stops being ready when shutdown begins.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

const (
	stateStarting int32 = iota
	stateReady
	stateDraining
)

// Checker tracks serving readiness. It is safe for concurrent use.
type Checker struct {
	state   atomic.Int32
	version string
}

// NewChecker creates a Checker in the starting state.
func NewChecker(version string) *Checker {
	return &Checker{version: version}
}

// SetReady marks the storefront ready to serve.
func (c *Checker) SetReady() {
	c.state.Store(stateReady)
}

// SetDraining marks the storefront as shutting down.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// IsReady reports whether the storefront is ready to serve.
func (c *Checker) IsReady() bool {
	return c.state.Load() == stateReady
}

// State returns the current state as a string for probe responses.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateReady:
		return "ready"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

type probeResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// LivenessHandler always responds 200: the process is up even while the
// store is still opening.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeProbe(w, http.StatusOK, probeResponse{Status: "ok", Version: c.version})
	}
}

// ReadinessHandler responds 200 once ready and 503 while starting or
// draining, so a load balancer stops routing before shutdown completes.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status := http.StatusOK
		if !c.IsReady() {
			status = http.StatusServiceUnavailable
		}
		writeProbe(w, status, probeResponse{Status: c.State(), Version: c.version})
	}
}

func writeProbe(w http.ResponseWriter, code int, v probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
