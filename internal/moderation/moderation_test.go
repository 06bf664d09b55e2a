package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/kv"
	"coolkid-chat/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = "error"
	return logger.New(cfg)
}

func testConfig() Config {
	return Config{
		Enabled:          true,
		BannedWords:      []string{"badword1", "badword2", "inappropriate"},
		WarningThreshold: 10,
	}
}

func TestCleanMessagePasses(t *testing.T) {
	c := NewChecker(testConfig(), kv.NewMemoryStore(), testLogger())
	assert.NoError(t, c.Check("u1", "tell me about the stars"))
	assert.Zero(t, c.Warnings("u1"))
}

func TestBannedWordWarnsCaseInsensitive(t *testing.T) {
	c := NewChecker(testConfig(), kv.NewMemoryStore(), testLogger())

	err := c.Check("u1", "this is BADWORD1 embedded")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	assert.Equal(t, 1, c.Warnings("u1"))
}

func TestThresholdTriggersSuspension(t *testing.T) {
	c := NewChecker(testConfig(), kv.NewMemoryStore(), testLogger())
	c.randInt = func(n int) int { return 0 } // 5 minute suspension

	for i := 0; i < 10; i++ {
		require.Error(t, c.Check("u1", "inappropriate"))
	}

	suspended, until := c.Suspended("u1")
	assert.True(t, suspended)
	assert.False(t, until.IsZero())

	// Even a clean message is rejected while suspended.
	err := c.Check("u1", "hello")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestSuspensionDurationWithinBounds(t *testing.T) {
	c := NewChecker(testConfig(), kv.NewMemoryStore(), testLogger())

	base := time.Now()
	c.now = func() time.Time { return base }
	c.randInt = func(n int) int {
		assert.Equal(t, 56, n)
		return 55 // highest possible draw, 60 minutes
	}

	for i := 0; i < 10; i++ {
		require.Error(t, c.Check("u1", "badword2"))
	}

	_, until := c.Suspended("u1")
	assert.Equal(t, base.Add(60*time.Minute), until)
}

func TestExpiredSuspensionResetsWarnings(t *testing.T) {
	c := NewChecker(testConfig(), kv.NewMemoryStore(), testLogger())

	base := time.Now()
	c.now = func() time.Time { return base }
	c.randInt = func(n int) int { return 0 }

	for i := 0; i < 10; i++ {
		require.Error(t, c.Check("u1", "badword1"))
	}

	c.now = func() time.Time { return base.Add(6 * time.Minute) }

	assert.NoError(t, c.Check("u1", "hello again"))
	assert.Zero(t, c.Warnings("u1"))
	suspended, _ := c.Suspended("u1")
	assert.False(t, suspended)
}

func TestWarningsTrackedPerUser(t *testing.T) {
	c := NewChecker(testConfig(), kv.NewMemoryStore(), testLogger())

	require.Error(t, c.Check("u1", "badword1"))
	require.Error(t, c.Check("u1", "badword1"))
	require.Error(t, c.Check("u2", "badword1"))

	assert.Equal(t, 2, c.Warnings("u1"))
	assert.Equal(t, 1, c.Warnings("u2"))
}

func TestStateSurvivesRestart(t *testing.T) {
	mem := kv.NewMemoryStore()
	c := NewChecker(testConfig(), mem, testLogger())
	c.randInt = func(n int) int { return 0 }

	for i := 0; i < 10; i++ {
		require.Error(t, c.Check("u1", "badword1"))
	}

	reloaded := NewChecker(testConfig(), mem, testLogger())
	suspended, _ := reloaded.Suspended("u1")
	assert.True(t, suspended)
}

func TestDisabledCheckerPassesEverything(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := NewChecker(cfg, kv.NewMemoryStore(), testLogger())

	assert.NoError(t, c.Check("u1", "badword1 inappropriate badword2"))
}
