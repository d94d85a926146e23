package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/logger"
	"github.com/m04kA/SMC-BanquetService/pkg/metrics"
)

const testSecret = "test-secret"

func whoami(w http.ResponseWriter, r *http.Request) {
	id, _ := GetUserID(r.Context())
	role, _ := GetRole(r.Context())
	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "role": role})
}

func newServer(t *testing.T, auth *Authenticator) *httpexpect.Expect {
	t.Helper()
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware)
	api.HandleFunc("/me", whoami).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(RequireRoles(domain.SupervisorRoles...))
	admin.HandleFunc("", whoami).Methods(http.MethodGet)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return httpexpect.Default(t, server.URL)
}

func TestAuth_ValidToken(t *testing.T) {
	auth := NewAuthenticator(testSecret, "banquet", logger.Nop())
	e := newServer(t, auth)

	token, err := auth.Sign(7, domain.RoleSales, time.Hour)
	require.NoError(t, err)

	obj := e.GET("/api/me").
		WithHeader("Authorization", "Bearer "+token).
		Expect().
		Status(http.StatusOK).JSON().Object()
	obj.Value("id").IsEqual(7)
	obj.Value("role").IsEqual("sales")
}

func TestAuth_Rejections(t *testing.T) {
	auth := NewAuthenticator(testSecret, "banquet", logger.Nop())
	e := newServer(t, auth)

	e.GET("/api/me").Expect().Status(http.StatusUnauthorized).
		JSON().Object().Value("message").IsEqual(msgMissingToken)

	e.GET("/api/me").WithHeader("Authorization", "Bearer garbage").
		Expect().Status(http.StatusUnauthorized)

	other := NewAuthenticator("another-secret", "banquet", logger.Nop())
	forged, err := other.Sign(7, domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	e.GET("/api/me").WithHeader("Authorization", "Bearer "+forged).
		Expect().Status(http.StatusUnauthorized)

	expired, err := auth.Sign(7, domain.RoleAdmin, -time.Minute)
	require.NoError(t, err)
	e.GET("/api/me").WithHeader("Authorization", "Bearer "+expired).
		Expect().Status(http.StatusUnauthorized)

	wrongIssuer, err := NewAuthenticator(testSecret, "elsewhere", logger.Nop()).Sign(7, domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	e.GET("/api/me").WithHeader("Authorization", "Bearer "+wrongIssuer).
		Expect().Status(http.StatusUnauthorized)
}

func TestAuth_RejectsUnknownRoleAndSubject(t *testing.T) {
	auth := NewAuthenticator(testSecret, "", logger.Nop())

	sign := func(sub, role string) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			Role:             role,
			RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return tok
	}

	_, _, err := auth.Verify(sign("7", "owner"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = auth.Verify(sign("alice", "admin"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	id, role, err := auth.Verify(sign("7", "viewer"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, domain.RoleViewer, role)
}

func TestRequireRoles(t *testing.T) {
	auth := NewAuthenticator(testSecret, "banquet", logger.Nop())
	e := newServer(t, auth)

	sales, err := auth.Sign(7, domain.RoleSales, time.Hour)
	require.NoError(t, err)
	e.GET("/api/admin").WithHeader("Authorization", "Bearer "+sales).
		Expect().Status(http.StatusForbidden)

	manager, err := auth.Sign(8, domain.RoleManager, time.Hour)
	require.NoError(t, err)
	e.GET("/api/admin").WithHeader("Authorization", "Bearer "+manager).
		Expect().Status(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	r := mux.NewRouter()
	r.Use(RequestID(logger.Nop()))
	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetRequestID(r.Context())))
	})
	server := httptest.NewServer(r)
	defer server.Close()
	e := httpexpect.Default(t, server.URL)

	e.GET("/ping").WithHeader(RequestIDHeader, "abc-123").
		Expect().Status(http.StatusOK).
		Header(RequestIDHeader).IsEqual("abc-123")

	resp := e.GET("/ping").Expect().Status(http.StatusOK)
	generated := resp.Header(RequestIDHeader).NotEmpty().Raw()
	resp.Body().IsEqual(generated)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("test", reg)

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/bookings/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(r)
	defer server.Close()
	e := httpexpect.Default(t, server.URL)

	e.GET("/bookings/1").Expect().Status(http.StatusNotFound)
	e.GET("/bookings/2").Expect().Status(http.StatusNotFound)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		metric := mf.GetMetric()[0]
		labels := map[string]string{}
		for _, l := range metric.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, "/bookings/{id}", labels["route"])
		assert.Equal(t, "404", labels["status"])
		assert.Equal(t, 2.0, metric.GetCounter().GetValue())
		found = true
	}
	assert.True(t, found)
}
