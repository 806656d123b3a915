package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/ItemVault_Go/internal/database"
	"github.com/osse101/ItemVault_Go/internal/logger"
)

const readinessTimeout = 2 * time.Second

// Readiness states.
const (
	StatusOK          = "ok"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
)

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Sessions int               `json:"sessions,omitempty"`
}

// SessionCounter reports how many sessions are loaded.
type SessionCounter interface {
	Len() int
}

// Check probes one dependency. A failing critical check makes the service
// unavailable; a failing optional one only degrades it.
type Check struct {
	Name     string
	Critical bool
	Probe    func(ctx context.Context) error
}

// PoolCheck pings the database. It is critical: without the store no session
// can load or save.
func PoolCheck(pool database.Pool) Check {
	return Check{Name: "database", Critical: true, Probe: pool.Ping}
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz runs every check under one deadline and answers 503 when a
// critical check fails. With no checks (in-memory store, no NATS) it is
// always ready.
func HandleReadyz(sessions SessionCounter, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: StatusOK}
		code := http.StatusOK
		for _, c := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			err := c.Probe(ctx)
			if err == nil {
				resp.Checks[c.Name] = StatusOK
				continue
			}

			logger.FromContext(ctx).Warn("Readiness check failed", "check", c.Name, "critical", c.Critical, "error", err)
			resp.Checks[c.Name] = StatusUnavailable
			if c.Critical {
				resp.Status = StatusUnavailable
				code = http.StatusServiceUnavailable
			} else if resp.Status == StatusOK {
				resp.Status = StatusDegraded
			}
		}

		if sessions != nil {
			resp.Sessions = sessions.Len()
		}
		respondJSON(w, code, resp)
	}
}
