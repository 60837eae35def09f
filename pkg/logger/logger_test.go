package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.error)
	assert.NotNil(t, logger.warn)
}

func TestNewWithEnv_Production(t *testing.T) {
	logger := NewWithEnv("production")
	assert.NotNil(t, logger)

	logger.Info("Order %s created", "order-1")
}

func TestInfo(t *testing.T) {
	logger := New()

	// Test that Info doesn't panic
	assert.NotPanics(t, func() { logger.Info("Test message: %s", "info") })
}

func TestError(t *testing.T) {
	logger := New()

	assert.NotPanics(t, func() { logger.Error("Test error: %s", "error") })
}

func TestWarn(t *testing.T) {
	logger := New()

	assert.NotPanics(t, func() { logger.Warn("Test warning: %s", "warning") })
}

func TestLogger_With(t *testing.T) {
	logger := Nop().With("service", "order")
	assert.NotNil(t, logger)

	assert.NotPanics(t, func() {
		logger.Info("User %s placed order %d", "john", 123)
		logger.Error("Failed to process request %d: %s", 404, "not found")
		logger.Warn("Warning: %s count is %d", "items", 5)
	})
}
