package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickshow/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuth(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
		wantRole   string
	}{
		{
			name: "valid token",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"sub": "user-42", "role": "admin", "exp": future,
			}),
			wantStatus: http.StatusOK,
			wantUser:   "user-42",
			wantRole:   "admin",
		},
		{
			name: "role defaults to customer",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"sub": "user-42", "exp": future,
			}),
			wantStatus: http.StatusOK,
			wantUser:   "user-42",
			wantRole:   "customer",
		},
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			header: "Bearer " + signToken(t, "other-secret", jwt.MapClaims{
				"sub": "user-42", "exp": future,
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"sub": "user-42", "exp": time.Now().Add(-time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "no subject",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"exp": future,
			}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = utils.GetUserIDFromContext(r.Context())
				gotRole, _ = utils.GetRoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Auth(testSecret, zap.NewNop())(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUser != tt.wantUser {
					t.Errorf("user = %q, want %q", gotUser, tt.wantUser)
				}
				if gotRole != tt.wantRole {
					t.Errorf("role = %q, want %q", gotRole, tt.wantRole)
				}
			}
		})
	}
}

func TestAdmin(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
	}{
		{"admin passes", "user-1", "admin", http.StatusOK},
		{"customer forbidden", "user-1", "customer", http.StatusForbidden},
		{"no identity", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
			if tt.userID != "" {
				req = req.WithContext(utils.SetUserContext(req.Context(), tt.userID, tt.role))
			}
			rec := httptest.NewRecorder()

			Admin(zap.NewNop())(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
