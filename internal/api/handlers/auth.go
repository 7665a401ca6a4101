package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/api/ctxkeys"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/user"
)

// AuthHandler handles registration, login and session management.
type AuthHandler struct {
	users *user.Service
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

// RegisterRequest is the body for POST /api/users/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterInput{
		Username: req.Username, Email: req.Email, Password: req.Password,
	})
	if errors.Is(err, user.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "email already taken")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "wrong credentials")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: u})
}

// Logout handles POST /api/users/logout. The presented token goes on the
// blocklist.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxkeys.UserID(r.Context())
	token, tokOK := ctxkeys.Token(r.Context())
	if !ok || !tokOK {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.users.Logout(r.Context(), userID, token); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/users/session. Reaching it at all means the
// token passed the middleware; it returns the current account.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxkeys.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
