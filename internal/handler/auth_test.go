package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vonga-club/api/internal/auth"
	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/handler"
)

const testJWTSecret = "test-secret"

// --- Mock store ---

type mockAuthStore struct {
	users map[uuid.UUID]database.User
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{users: make(map[uuid.UUID]database.User)}
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return database.User{}, pgx.ErrNoRows
}

func (m *mockAuthStore) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	u, ok := m.users[id]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockAuthStore) addUser(t *testing.T, email, password string) database.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := database.User{
		ID:             uuid.New(),
		FullName:       "Admin User",
		Email:          email,
		HashedPassword: string(hash),
		Role:           enum.UserRoleAdmin,
	}
	m.users[u.ID] = u
	return u
}

// --- Helpers ---

func setupAuthRouter(store *mockAuthStore) *chi.Mux {
	h := handler.NewAuthHandler(store, testJWTSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// --- Tests ---

func TestLogin(t *testing.T) {
	store := newMockAuthStore()
	user := store.addUser(t, "admin@vonga.io", "correct horse battery staple")
	router := setupAuthRouter(store)

	rr := postPaymentJSON(t, router, "/auth/login", map[string]string{
		"email":    "admin@vonga.io",
		"password": "correct horse battery staple",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	var resp tokenResp
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if resp.User.Email != user.Email || resp.User.Role != enum.UserRoleAdmin {
		t.Errorf("user: got %+v", resp.User)
	}

	claims, err := auth.ValidateToken(testJWTSecret, resp.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user id: got %s, want %s", claims.UserID, user.ID)
	}
	if claims.Role != enum.UserRoleAdmin {
		t.Errorf("claims role: got %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMockAuthStore()
	store.addUser(t, "admin@vonga.io", "right password")
	router := setupAuthRouter(store)

	rr := postPaymentJSON(t, router, "/auth/login", map[string]string{
		"email":    "admin@vonga.io",
		"password": "wrong password",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)

	rr := postPaymentJSON(t, router, "/auth/login", map[string]string{
		"email":    "nobody@vonga.io",
		"password": "whatever",
	})

	// Unknown email and wrong password read identically.
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)

	for name, body := range map[string]map[string]string{
		"missing email":    {"password": "secret"},
		"missing password": {"email": "admin@vonga.io"},
	} {
		t.Run(name, func(t *testing.T) {
			rr := postPaymentJSON(t, router, "/auth/login", body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	store := newMockAuthStore()
	user := store.addUser(t, "admin@vonga.io", "secret")
	router := setupAuthRouter(store)

	refresh, err := auth.GenerateRefreshToken(testJWTSecret, user.ID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	rr := postPaymentJSON(t, router, "/auth/refresh", map[string]string{
		"refresh_token": refresh,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	var resp tokenResp
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected a fresh token pair")
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)

	rr := postPaymentJSON(t, router, "/auth/refresh", map[string]string{
		"refresh_token": "not-a-jwt",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestRefreshDeletedUser(t *testing.T) {
	store := newMockAuthStore()
	router := setupAuthRouter(store)

	// Token minted for a user that no longer exists.
	refresh, err := auth.GenerateRefreshToken(testJWTSecret, uuid.New())
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	rr := postPaymentJSON(t, router, "/auth/refresh", map[string]string{
		"refresh_token": refresh,
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}
