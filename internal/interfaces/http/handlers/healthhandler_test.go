package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/tally/internal/interfaces/http/handlers/testutil"
)

func TestHealthHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	tests := []struct {
		name   string
		checks map[string]HealthCheck
		status int
		body   string
	}{
		{"all healthy", map[string]HealthCheck{"database": ok, "redis": ok}, http.StatusOK, `"status":"healthy"`},
		{"redis down", map[string]HealthCheck{"database": ok, "redis": down}, http.StatusServiceUnavailable, `"redis":"dial tcp: connection refused"`},
		{"no checks", nil, http.StatusOK, `"service":"tally"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)

			NewHealthHandler(tt.checks).Health(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
