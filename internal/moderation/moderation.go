// Package moderation screens outgoing messages against a banned-word
// list and escalates repeat offenders to a timed chat suspension.
package moderation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/kv"
	"coolkid-chat/backend/pkg/logger"
)

// suspensionKey matches the storage key used by the reference client.
const suspensionKey = "chatSuspension"

const suspensionReason = "Multiple policy violations detected"

// Suspension records an active chat ban for one user.
type Suspension struct {
	SuspendedUntil time.Time `json:"suspendedUntil"`
	Reason         string    `json:"reason"`
}

type state struct {
	Warnings    map[string]int        `json:"warnings"`
	Suspensions map[string]Suspension `json:"suspensions"`
}

// Config controls the checker's word list and escalation threshold.
type Config struct {
	Enabled          bool
	BannedWords      []string
	WarningThreshold int
}

// Checker tracks per-user policy warnings. Hitting the warning threshold
// suspends the user for a random 5 to 60 minutes.
type Checker struct {
	mu        sync.Mutex
	enabled   bool
	banned    []string
	threshold int
	state     state
	kv        kv.Store
	log       *logger.Logger

	now     func() time.Time
	randInt func(n int) int
}

// NewChecker loads persisted warning and suspension state, degrading
// silently to a clean slate when the snapshot is absent or unreadable.
func NewChecker(cfg Config, store kv.Store, log *logger.Logger) *Checker {
	c := &Checker{
		enabled:   cfg.Enabled,
		threshold: cfg.WarningThreshold,
		state: state{
			Warnings:    make(map[string]int),
			Suspensions: make(map[string]Suspension),
		},
		kv:      store,
		log:     log,
		now:     time.Now,
		randInt: rand.Intn,
	}
	for _, w := range cfg.BannedWords {
		c.banned = append(c.banned, strings.ToLower(w))
	}

	doc, err := store.Get(suspensionKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn("Moderation snapshot unreadable, starting clean", "error", err.Error())
		}
		return c
	}

	var persisted state
	if err := json.Unmarshal(doc, &persisted); err != nil {
		log.Warn("Moderation snapshot corrupt, starting clean", "error", err.Error())
		return c
	}
	if persisted.Warnings != nil {
		c.state.Warnings = persisted.Warnings
	}
	if persisted.Suspensions != nil {
		c.state.Suspensions = persisted.Suspensions
	}
	return c
}

// Check screens one outgoing message for a user. It returns a Forbidden
// error while the user is suspended, and on a banned-word hit it records
// a warning, possibly escalating to a suspension, and rejects the
// message. A clean message under no suspension returns nil.
func (c *Checker) Check(userID, text string) error {
	if !c.enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if susp, ok := c.state.Suspensions[userID]; ok {
		if c.now().Before(susp.SuspendedUntil) {
			remaining := int(time.Until(susp.SuspendedUntil).Minutes()) + 1
			return apperrors.NewForbiddenError(
				fmt.Sprintf("Chat suspended: %s. Time remaining: %d minutes", susp.Reason, remaining))
		}
		// Suspension served; warnings reset with it.
		delete(c.state.Suspensions, userID)
		delete(c.state.Warnings, userID)
		c.persist()
	}

	if !c.containsBanned(text) {
		return nil
	}

	c.state.Warnings[userID]++
	count := c.state.Warnings[userID]

	if count >= c.threshold {
		minutes := c.randInt(56) + 5
		c.state.Suspensions[userID] = Suspension{
			SuspendedUntil: c.now().Add(time.Duration(minutes) * time.Minute),
			Reason:         suspensionReason,
		}
		c.persist()
		c.log.Warn("User suspended for policy violations", "userId", userID, "minutes", minutes)
		return apperrors.NewForbiddenError(
			fmt.Sprintf("Chat suspended: %s. Time remaining: %d minutes", suspensionReason, minutes))
	}

	c.persist()
	return apperrors.NewForbiddenError(
		fmt.Sprintf("Content policy violation. Warning %d of %d", count, c.threshold))
}

// Suspended reports whether a user is currently suspended and until when.
func (c *Checker) Suspended(userID string) (bool, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	susp, ok := c.state.Suspensions[userID]
	if !ok || !c.now().Before(susp.SuspendedUntil) {
		return false, time.Time{}
	}
	return true, susp.SuspendedUntil
}

// Warnings returns the accumulated warning count for a user.
func (c *Checker) Warnings(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Warnings[userID]
}

func (c *Checker) containsBanned(text string) bool {
	lowered := strings.ToLower(text)
	for _, w := range c.banned {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}

// persist writes the full warning and suspension state. Caller must hold
// the mutex. Write failures follow the silent-degradation policy.
func (c *Checker) persist() {
	doc, err := json.Marshal(c.state)
	if err != nil {
		c.log.Warn("Failed to serialize moderation state", "error", err.Error())
		return
	}
	if err := c.kv.Put(suspensionKey, doc); err != nil {
		c.log.Warn("Failed to persist moderation state", "error", err.Error())
	}
}
