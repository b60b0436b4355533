package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReady(t *testing.T) {
	rs := response.New(logger.NewNop(), nil, false)
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		checks map[string]Check
		status int
	}{
		{"all up", map[string]Check{"mongo": ok, "redis": ok}, http.StatusOK},
		{"redis down", map[string]Check{"mongo": ok, "redis": down}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.checks, rs).Ready(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
			assert.Equal(t, tt.status, rec.Code)

			var body healthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "ok", body.Checks["mongo"])
		})
	}
}
