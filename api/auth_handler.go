package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	tokens      auth.TokenService
	credentials auth.AdminCredentials
}

func newAuthHandler(tokens auth.TokenService, credentials auth.AdminCredentials) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	if !credentials.Configured() {
		logger.Warn().Msg("No admin password configured, every login will be rejected")
	}

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		tokens:      tokens,
		credentials: credentials,
	}
}

// login exchanges the admin credentials for a bearer token
// @Summary Log in
// @Description Verifies the admin username and password and issues a bearer token valid for 24 hours
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Admin credentials"
// @Success 200 {object} LoginResponse "Issued token"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid JSON"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !h.credentials.Verify(req.Username, req.Password) {
			h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Failed login attempt")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, err := h.tokens.Issue()
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
			return
		}

		h.logger.Info().Time("expiresAt", token.ExpiresAt).Msg("Admin logged in")
		h.responder.WriteJSON(w, LoginResponse{
			Success:   true,
			Token:     token.Value,
			ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

// logout revokes the token used for the call
// @Summary Log out
// @Description Revokes the presented bearer token. Signed tokens stay valid until they expire.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := ctxGetToken(r.Context()); ok {
			h.tokens.Revoke(token)
		}
		h.responder.WriteJSON(w, SuccessResponse{Success: true})
	}
}

// verify reports whether the presented token is still valid
// @Summary Verify token
// @Tags Auth
// @Produce json
// @Success 200 {object} VerifyResponse
// @Router /auth/verify [get]
func (h authHandler) verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		h.responder.WriteJSON(w, VerifyResponse{Valid: ok && h.tokens.Validate(token)})
	}
}
