package resilience

import (
	"errors"
	"sync"
	"time"

	"coolkid-chat/backend/pkg/logger"
)

// State represents the current state of a circuit breaker
type State string

const (
	// StateClosed means requests are allowed to pass through
	StateClosed State = "closed"
	// StateOpen means requests are being short-circuited
	StateOpen State = "open"
	// StateHalfOpen means a limited number of test requests are allowed
	StateHalfOpen State = "half-open"
)

// ErrCircuitOpen is returned when the breaker rejects a request.
var ErrCircuitOpen = errors.New("circuit open")

// Config holds configuration for a circuit breaker
type Config struct {
	Name             string
	FailureThreshold uint
	SuccessThreshold uint
	RetryTimeout     time.Duration
}

// DefaultConfig returns a default circuit breaker configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		RetryTimeout:     60 * time.Second,
	}
}

// CircuitBreaker implements the circuit breaker pattern around an
// unreliable collaborator.
type CircuitBreaker struct {
	name             string
	state            State
	failureThreshold uint
	successThreshold uint
	retryTimeout     time.Duration
	mu               sync.Mutex
	failureCount     uint
	successCount     uint
	nextAttemptTime  time.Time
	log              *logger.Logger
}

// New creates a new circuit breaker
func New(config Config, log *logger.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		name:             config.Name,
		state:            StateClosed,
		failureThreshold: config.FailureThreshold,
		successThreshold: config.SuccessThreshold,
		retryTimeout:     config.RetryTimeout,
		log:              log,
	}
}

// Execute runs a function through the circuit breaker
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allowRequest() {
		cb.log.Warn("Circuit breaker preventing request",
			"name", cb.name,
			"state", string(cb.State()),
		)
		return ErrCircuitOpen
	}

	err := fn()
	if err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

// State returns the current state of the breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Now().After(cb.nextAttemptTime) {
			cb.state = StateHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	case StateHalfOpen:
		return true
	}
	return false
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.trip()
		}
	case StateHalfOpen:
		cb.trip()
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failureCount = 0
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.log.Info("Circuit breaker closed", "name", cb.name)
		}
	}
}

// trip opens the circuit. Caller must hold the mutex.
func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.nextAttemptTime = time.Now().Add(cb.retryTimeout)
	cb.log.Warn("Circuit breaker opened",
		"name", cb.name,
		"failures", cb.failureCount,
		"retry_at", cb.nextAttemptTime,
	)
}
