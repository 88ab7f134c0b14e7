package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"jobace/internal/cache"
	"jobace/internal/config"
	"jobace/internal/service"
)

// FacebookAuthHandler handles the Facebook OAuth login flow, mirroring the
// Google one: a Redis-held state nonce, code exchange, then find-or-link on
// the Facebook profile id.
type FacebookAuthHandler struct {
	oauthConfig *oauth2.Config
	authService service.AuthService
	cache       *cache.Client
	frontendURL string
}

// NewFacebookAuthHandler creates a new Facebook OAuth handler. Returns nil
// when the Facebook app credentials are not configured.
func NewFacebookAuthHandler(cfg *config.Config, authService service.AuthService, cache *cache.Client) *FacebookAuthHandler {
	if cfg.FacebookClientID == "" || cfg.FacebookClientSecret == "" {
		return nil
	}
	return &FacebookAuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.FacebookRedirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		authService: authService,
		cache:       cache,
		frontendURL: cfg.FrontendURL,
	}
}

type facebookUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login godoc
// @Summary Start Facebook OAuth login
// @Tags auth
// @Success 307
// @Router /auth/facebook [get]
func (h *FacebookAuthHandler) Login(c echo.Context) error {
	state := uuid.New().String()
	_ = h.cache.Set(c.Request().Context(), "oauth_state:"+state, []byte("1"), oauthStateTTL)
	return c.Redirect(http.StatusTemporaryRedirect, h.oauthConfig.AuthCodeURL(state))
}

// Callback godoc
// @Summary Facebook OAuth callback
// @Tags auth
// @Success 307
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/facebook/callback [get]
func (h *FacebookAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	state := c.QueryParam("state")
	if state == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing oauth state")
	}
	if data, _ := h.cache.GetDelete(ctx, "oauth_state:"+state); data == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid oauth state")
	}

	token, err := h.oauthConfig.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "code exchange failed")
	}

	body, err := fetchOAuthUserInfo(ctx, "https://graph.facebook.com/me?fields=id,name,email&access_token="+url.QueryEscape(token.AccessToken))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch user info")
	}

	var info facebookUserInfo
	if err := json.Unmarshal(body, &info); err != nil || info.ID == "" || info.Email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user info")
	}

	pair, _, err := h.authService.LoginWithFacebook(ctx, info.ID, info.Email, info.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	redirect := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(pair.AccessToken) +
		"&refresh_token=" + url.QueryEscape(pair.RefreshToken)
	return c.Redirect(http.StatusTemporaryRedirect, redirect)
}
