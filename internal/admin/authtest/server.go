// Package authtest provides an in-process stand-in for the external admin
// authentication endpoint. It implements the same wire contract (POST
// /api/auth/admin/login with an {email, password} body and a
// {success, data: {token, admin}} response) against a real store, so tests
// can exercise the full provision-then-login path without the production
// service. It is never part of a shipped binary.
package authtest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/statlerhq/admincore/internal/admin/domain"
	"github.com/statlerhq/admincore/internal/admin/store"
	"github.com/statlerhq/admincore/pkg/cryptox"
)

// Server is a fake authentication endpoint backed by a store.
type Server struct {
	httpServer *httptest.Server
	store      store.Store
	secret     []byte
	tokenTTL   time.Duration
}

// NewServer starts the fake endpoint. secret signs the issued bearer tokens.
// Callers own the store's lifecycle; Close only stops the HTTP listener.
func NewServer(st store.Store, secret []byte) *Server {
	s := &Server{
		store:    st,
		secret:   secret,
		tokenTTL: 24 * time.Hour,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/admin/login", s.handleLogin)
	s.httpServer = httptest.NewServer(mux)

	return s
}

// URL returns the base URL of the running endpoint.
func (s *Server) URL() string { return s.httpServer.URL }

// Close stops the HTTP listener.
func (s *Server) Close() { s.httpServer.Close() }

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileBody struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      string     `json:"role"`
	Active    bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeFailure(w, http.StatusMethodNotAllowed)
		return
	}

	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFailure(w, http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" {
		writeFailure(w, http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// The email attribute may carry a plain username: the login form sends
	// its username field under this name. Accept either.
	acc, err := s.store.Admins().GetByEmail(ctx, body.Email)
	if errors.Is(err, store.ErrNotFound) {
		acc, err = s.store.Admins().GetByUsername(ctx, body.Email)
	}
	if errors.Is(err, store.ErrNotFound) {
		writeFailure(w, http.StatusUnauthorized)
		return
	}
	if err != nil {
		writeFailure(w, http.StatusInternalServerError)
		return
	}

	if !acc.Active {
		writeFailure(w, http.StatusForbidden)
		return
	}

	if err := cryptox.VerifyPassword(body.Password, acc.PasswordHash); err != nil {
		writeFailure(w, http.StatusUnauthorized)
		return
	}

	token, err := s.mintToken(acc)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError)
		return
	}

	if err := s.store.Admins().RecordLogin(ctx, acc.ID); err != nil {
		writeFailure(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data": map[string]any{
			"token": token,
			"admin": profileBody{
				ID:        acc.ID,
				Username:  acc.Username,
				Email:     acc.Email,
				FirstName: acc.FirstName,
				LastName:  acc.LastName,
				Role:      string(acc.Role),
				Active:    acc.Active,
				LastLogin: acc.LastLogin,
			},
		},
	})
}

func (s *Server) mintToken(acc domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      acc.Email,
		"username": acc.Username,
		"role":     string(acc.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func writeFailure(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
}
