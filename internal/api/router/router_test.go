package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prefect-crm/config"
	"prefect-crm/internal/api/handler"
	"prefect-crm/pkg/jwt"
)

type stubPinger struct {
	err   error
	calls int
}

func (p *stubPinger) Ping(context.Context) error {
	p.calls++
	return p.err
}

func newTestEngine(db DBPinger) http.Handler {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20, UploadMaxBytes: 10 << 20},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-0123456789"},
	}
	return Setup(cfg, &handler.Handler{}, jwt.NewManager(&cfg.Auth), nil, db, zap.NewNop())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		status   int
		database string
	}{
		{"数据库正常", nil, http.StatusOK, "ok"},
		{"数据库不可用", errors.New("connection refused"), http.StatusServiceUnavailable, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &stubPinger{err: tt.pingErr}
			w := httptest.NewRecorder()
			newTestEngine(db).ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, 1, db.calls)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.database, body["database"])
			assert.Equal(t, "disabled", body["redis"])
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestEngine(&stubPinger{})

	for _, path := range []string{"/api/v1/customers", "/api/v1/profiles", "/api/v1/meta/choices"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
