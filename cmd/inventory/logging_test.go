package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(&stdout, &stderr)).With("component", "test")

	logger.Debug("hidden")
	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "hello")
	assert.Contains(t, stdout.String(), "careful")
	assert.Contains(t, stdout.String(), "component=test")
	assert.NotContains(t, stdout.String(), "broken")
	assert.Contains(t, stderr.String(), "broken")
}
