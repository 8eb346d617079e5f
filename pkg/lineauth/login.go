package lineauth

import (
	"errors"
	"net/http"
	"time"

	"gokon/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const stateCookie = "line_oauth_state"

type LoginConfig struct {
	ChannelID     string
	ChannelSecret string
	RedirectURL   string
	Endpoint      oauth2.Endpoint
	SecureCookie  bool
}

type LoginResponse struct {
	IDToken   string    `json:"id_token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginHandlers drive the LINE Login authorization code flow. The callback
// hands the ID token back to the client, which then uses it as a bearer
// token.
type LoginHandlers struct {
	oauth  *oauth2.Config
	auth   *Authenticator
	secure bool
	logger logger.Logger
}

func NewLoginHandlers(config LoginConfig, auth *Authenticator, logger logger.Logger) *LoginHandlers {
	if config.Endpoint.AuthURL == "" {
		config.Endpoint = Endpoint
	}
	return &LoginHandlers{
		oauth: &oauth2.Config{
			ClientID:     config.ChannelID,
			ClientSecret: config.ChannelSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint:     config.Endpoint,
			Scopes:       []string{"openid", "profile"},
		},
		auth:   auth,
		secure: config.SecureCookie,
		logger: logger,
	}
}

// Login handles GET /auth/line/login
//
//	@Summary	Redirect to LINE Login
//	@Tags		auth
//	@Success	302
//	@Router		/auth/line/login [get]
func (h *LoginHandlers) Login(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int((10 * time.Minute).Seconds()), "/auth/line", "", h.secure, true)
	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// Callback handles GET /auth/line/callback
//
//	@Summary	Complete LINE Login
//	@Tags		auth
//	@Produce	json
//	@Param		code	query		string	true	"authorization code"
//	@Param		state	query		string	true	"state"
//	@Success	200		{object}	LoginResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Router		/auth/line/callback [get]
func (h *LoginHandlers) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	want, err := c.Cookie(stateCookie)
	if err != nil || want == "" || want != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidState.Error()})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth/line", "", h.secure, true)

	token, err := h.oauth.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.logger.Warn(ctx, "line code exchange failed", logger.Field{Key: "error", Value: err})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "code exchange failed"})
		return
	}

	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
		return
	}

	claims, err := h.auth.verifier.Verify(ctx, raw)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidToken) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": ErrInvalidToken.Error()})
		return
	}

	userID, err := h.auth.userID(ctx, claims)
	if err != nil {
		h.logger.Error(ctx, "failed to resolve user", logger.Field{Key: "error", Value: err})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.logger.Info(ctx, "line login completed", logger.Field{Key: "user_id", Value: userID})
	c.JSON(http.StatusOK, LoginResponse{
		IDToken:   raw,
		UserID:    userID,
		ExpiresAt: token.Expiry,
	})
}
