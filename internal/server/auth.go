package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// loginRequest is the request body for POST /login.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginResponse carries the issued token.
type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin authenticates the editor and issues a JWT.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		verr := &ErrValidation{Field: "body", Message: "invalid JSON"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		field := "body"
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		verr := &ErrValidation{Field: field, Message: "required"}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	if !s.editorConfig.VerifyPassword(req.Username, req.Password) {
		authErr := &ErrInvalidCredentials{}
		s.errorResponse(w, HTTPStatus(authErr), authErr.Error())
		return
	}

	token, err := s.jwtService.GenerateToken(req.Username)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.jsonResponse(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
