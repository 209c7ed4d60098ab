package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/models"
)

// signJWT creates an HS256 access token for a user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"iss":   "tenk-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// handleRegister handles POST /api/auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "Valid email is required")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	if _, err := s.app.Storage.Internal().GetUserByEmail(r.Context(), req.Email); err == nil {
		WriteError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now()
	user := &models.User{
		UserID:       uuid.New().String(),
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.app.Storage.Internal().SaveUser(r.Context(), user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.logger.Info().Str("user", user.UserID).Msg("User registered")
	WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user.Sanitized()})
}

// handleLogin handles POST /api/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.app.Storage.Internal().GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		// Same response as a wrong password; no account enumeration.
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.logger.Info().Str("user", user.UserID).Msg("User logged in")
	WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user.Sanitized()})
}

// handleMe handles GET and DELETE /api/me. DELETE removes the account along
// with its transaction log and snapshot series.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := s.app.Storage.Internal().GetUser(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		WriteJSON(w, http.StatusOK, user.Sanitized())

	case http.MethodDelete:
		if err := s.app.Storage.Transactions().ReplaceAll(r.Context(), userID, nil); err != nil {
			s.writeServiceError(w, err, "Failed to delete account data")
			return
		}
		if err := s.app.Storage.Snapshots().ReplaceAll(r.Context(), userID, nil); err != nil {
			s.writeServiceError(w, err, "Failed to delete account data")
			return
		}
		if err := s.app.Storage.Internal().DeleteUser(r.Context(), userID); err != nil {
			s.writeServiceError(w, err, "Failed to delete account")
			return
		}
		s.logger.Info().Str("user", userID).Msg("Account deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}
