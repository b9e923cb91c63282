package mwauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/lib/jwt"
	"ticketing/internal/lib/logger/handlers/slogdiscard"
	"ticketing/internal/models"
)

const secret = "test-secret"

func newToken(t *testing.T, id int64, role models.Role, ttl time.Duration) string {
	t.Helper()

	token, err := jwt.NewToken(models.User{ID: id, Role: role}, secret, ttl)
	require.NoError(t, err)

	return token
}

func newRouter(roles ...models.Role) http.Handler {
	router := chi.NewRouter()
	router.Use(VerifyToken(slogdiscard.NewDiscardLogger(), secret))
	router.With(RequireRoles(roles...)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		render.JSON(w, r, id)
	})

	return router
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		authorization  string
		roles          []models.Role
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Missing header",
			roles:          []models.Role{models.RoleCustomer},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"authorization token is required"}`,
		},
		{
			name:           "Not a bearer token",
			authorization:  "Basic dXNlcjpwYXNz",
			roles:          []models.Role{models.RoleCustomer},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"authorization token is required"}`,
		},
		{
			name:           "Garbage token",
			authorization:  "Bearer not-a-token",
			roles:          []models.Role{models.RoleCustomer},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"invalid or expired token"}`,
		},
		{
			name:           "Expired token",
			authorization:  "Bearer " + newToken(t, 7, models.RoleCustomer, -time.Minute),
			roles:          []models.Role{models.RoleCustomer},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"invalid or expired token"}`,
		},
		{
			name:           "Role not allowed",
			authorization:  "Bearer " + newToken(t, 7, models.RoleCustomer, time.Hour),
			roles:          []models.Role{models.RoleAdmin},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"access denied"}`,
		},
		{
			name:           "Identity reaches handler",
			authorization:  "Bearer " + newToken(t, 7, models.RoleOrganizer, time.Hour),
			roles:          []models.Role{models.RoleOrganizer, models.RoleAdmin},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ID":7,"Role":"Organizer"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			rr := httptest.NewRecorder()

			newRouter(tc.roles...).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	t.Parallel()

	handler := RequireRoles(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
