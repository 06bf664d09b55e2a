package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"coolkid-chat/backend/pkg/logger"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Component is one health-checked part of the system.
type Component struct {
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	Error       string    `json:"error,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

// Check probes one component.
type Check func() (Status, string, error)

// Checker runs registered checks on an interval and serves the results.
type Checker struct {
	checks      map[string]Check
	critical    map[string]bool
	components  map[string]*Component
	checkPeriod time.Duration
	mutex       sync.RWMutex
	log         *logger.Logger
}

// NewChecker creates a health checker with a built-in liveness check.
func NewChecker(log *logger.Logger, checkPeriod time.Duration) *Checker {
	checker := &Checker{
		checks:      make(map[string]Check),
		critical:    make(map[string]bool),
		components:  make(map[string]*Component),
		checkPeriod: checkPeriod,
		log:         log,
	}

	checker.RegisterCheck("self", false, func() (Status, string, error) {
		return StatusUp, "Health checker is running", nil
	})

	return checker
}

// RegisterCheck registers a check. Critical components gate the overall
// health verdict; non-critical ones only show in the report.
func (c *Checker) RegisterCheck(name string, critical bool, check Check) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.checks[name] = check
	c.critical[name] = critical
	c.components[name] = &Component{
		Name:        name,
		Status:      StatusDown,
		Description: "Not checked yet",
	}
}

// RegisterStorageCheck wires the snapshot store's liveness probe in as a
// critical component.
func (c *Checker) RegisterStorageCheck(probe func() error) {
	c.RegisterCheck("storage", true, func() (Status, string, error) {
		if err := probe(); err != nil {
			return StatusDown, "Snapshot store unreachable", err
		}
		return StatusUp, "Snapshot store is reachable", nil
	})
}

// RegisterProviderCheck reports whether the chat provider has credentials
// configured. Deliberately non-critical: the rest of the API works
// without them.
func (c *Checker) RegisterProviderCheck(hasCredentials func() bool) {
	c.RegisterCheck("llm-provider", false, func() (Status, string, error) {
		if !hasCredentials() {
			return StatusDegraded, "Provider API key is not configured", nil
		}
		return StatusUp, "Provider credentials are configured", nil
	})
}

// RunChecks executes all registered checks once.
func (c *Checker) RunChecks() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for name, check := range c.checks {
		status, description, err := check()

		component := c.components[name]
		component.Status = status
		component.Description = description
		component.LastChecked = time.Now()

		if err != nil {
			component.Error = err.Error()
			c.log.Error("Health check failed",
				"component", name,
				"status", string(status),
				"error", err.Error(),
			)
		} else {
			component.Error = ""
		}
	}
}

// Start begins periodic health checks.
func (c *Checker) Start() {
	go func() {
		c.RunChecks()

		ticker := time.NewTicker(c.checkPeriod)
		defer ticker.Stop()

		for range ticker.C {
			c.RunChecks()
		}
	}()
}

// GetStatus returns a copy of the current component states.
func (c *Checker) GetStatus() map[string]*Component {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make(map[string]*Component, len(c.components))
	for k, v := range c.components {
		componentCopy := *v
		result[k] = &componentCopy
	}
	return result
}

// IsSystemHealthy reports whether every critical component is up.
func (c *Checker) IsSystemHealthy() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for name, component := range c.components {
		if component.Status == StatusDown && c.critical[name] {
			return false
		}
	}
	return true
}

// HTTPHandler serves the health report, 503 when a critical component is
// down.
func (c *Checker) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.GetStatus()

		w.Header().Set("Content-Type", "application/json")

		overall := "ok"
		if !c.IsSystemHealthy() {
			overall = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		response := map[string]interface{}{
			"status":     overall,
			"timestamp":  time.Now(),
			"components": status,
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			c.log.Error("Failed to encode health check response", "error", err.Error())
		}
	}
}
