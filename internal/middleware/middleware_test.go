package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockAuthenticator struct{ mock.Mock }

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Principal), args.Error(1)
}

func principalEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(p.Name))
	})
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":     "abc",
		"bearer abc":     "abc",
		"Bearer":         "",
		"Basic abc":      "",
		"Bearer abc def": "",
		"":               "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerToken(r), header)
	}
}

func TestAuthenticate(t *testing.T) {
	rs := response.New(logger.NewNop(), nil, false)

	t.Run("valid token", func(t *testing.T) {
		auth := new(MockAuthenticator)
		auth.On("Authenticate", mock.Anything, "good").
			Return(domain.Principal{ID: primitive.NewObjectID(), Name: "alice", Role: domain.RoleUser}, nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		Authenticate(auth, rs)(principalEcho(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
		auth.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		auth := new(MockAuthenticator)
		auth.On("Authenticate", mock.Anything, "").Return(domain.Principal{}, domain.ErrTokenRequired).Once()

		rec := httptest.NewRecorder()
		Authenticate(auth, rs)(principalEcho(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authentication token is required")
	})

	t.Run("invalid token", func(t *testing.T) {
		auth := new(MockAuthenticator)
		auth.On("Authenticate", mock.Anything, "expired").Return(domain.Principal{}, domain.ErrInvalidToken).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer expired")
		Authenticate(auth, rs)(principalEcho(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	})
}

func TestRequireRole(t *testing.T) {
	rs := response.New(logger.NewNop(), nil, false)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireRole(rs, domain.RoleAdmin)(ok)

	serve := func(ctx context.Context) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil).WithContext(ctx))
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(context.Background()))
	assert.Equal(t, http.StatusForbidden, serve(WithPrincipal(context.Background(), domain.Principal{Role: domain.RoleUser})))
	assert.Equal(t, http.StatusNoContent, serve(WithPrincipal(context.Background(), domain.Principal{Role: domain.RoleAdmin})))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	m := metrics.NewMetricsManager("test")
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/books/{id}", func(w http.ResponseWriter, r *http.Request) {})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/books/"+id, nil))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/books/{id}", "200")))
}

func TestRequestLoggerRecordsUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{Logger: zap.New(core)}
	rs := response.New(logger.NewNop(), nil, false)
	id := primitive.NewObjectID()

	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, "good").Return(domain.Principal{ID: id, Name: "alice"}, nil)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(RequestLogger(log))
	r.With(Authenticate(auth, rs)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, id.Hex(), fields["user_id"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}
