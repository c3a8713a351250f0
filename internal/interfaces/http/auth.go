package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"fintrack/internal/domain/user"
	"fintrack/internal/shared/auth"
	"fintrack/internal/shared/middleware"
)

type AuthHandler struct {
	users *user.Service
	jwt   *auth.JWT
	log   zerolog.Logger
}

func NewAuthHandler(users *user.Service, jwt *auth.JWT, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, log: log}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (h *AuthHandler) toAuthResponse(u *user.User) (*authResponse, error) {
	token, err := h.jwt.Generate(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	resp := &authResponse{Token: token}
	resp.User.ID = u.ID
	resp.User.Username = u.Username
	return resp, nil
}

// Register creates an account and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			respondError(w, http.StatusConflict, "Username already taken")
			return
		}
		h.log.Error().Err(err).Str("username", req.Username).Msg("registration failed")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.toAuthResponse(created)
	if err != nil {
		h.log.Error().Err(err).Msg("token generation failed")
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// Login exchanges credentials for a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	found, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.log.Error().Err(err).Msg("authentication failed")
		respondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	resp, err := h.toAuthResponse(found)
	if err != nil {
		h.log.Error().Err(err).Msg("token generation failed")
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// DeleteAccount removes the authenticated user and their data.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error().Err(err).Int64("user_id", userID).Msg("account deletion failed")
		respondError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
