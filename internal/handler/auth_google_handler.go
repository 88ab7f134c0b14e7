package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"jobace/internal/cache"
	"jobace/internal/config"
	"jobace/internal/service"
)

const oauthStateTTL = 10 * time.Minute

// oauthHTTPClient caps userinfo fetches so a hung provider endpoint cannot
// pin the handler.
var oauthHTTPClient = &http.Client{Timeout: 10 * time.Second}

func fetchOAuthUserInfo(ctx context.Context, infoURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := oauthHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// GoogleAuthHandler handles the Google OAuth login flow. The state nonce is
// held in Redis so the callback can verify it came from a login we started.
type GoogleAuthHandler struct {
	oauthConfig *oauth2.Config
	authService service.AuthService
	cache       *cache.Client
	frontendURL string
}

// NewGoogleAuthHandler creates a new Google OAuth handler. Returns nil when
// the Google client credentials are not configured.
func NewGoogleAuthHandler(cfg *config.Config, authService service.AuthService, cache *cache.Client) *GoogleAuthHandler {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil
	}
	return &GoogleAuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		authService: authService,
		cache:       cache,
		frontendURL: cfg.FrontendURL,
	}
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login godoc
// @Summary Start Google OAuth login
// @Tags auth
// @Success 307
// @Router /auth/google [get]
func (h *GoogleAuthHandler) Login(c echo.Context) error {
	state := uuid.New().String()
	_ = h.cache.Set(c.Request().Context(), "oauth_state:"+state, []byte("1"), oauthStateTTL)
	return c.Redirect(http.StatusTemporaryRedirect, h.oauthConfig.AuthCodeURL(state))
}

// Callback godoc
// @Summary Google OAuth callback
// @Tags auth
// @Success 307
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/google/callback [get]
func (h *GoogleAuthHandler) Callback(c echo.Context) error {
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

	body, err := fetchOAuthUserInfo(ctx, "https://www.googleapis.com/oauth2/v2/userinfo?access_token="+url.QueryEscape(token.AccessToken))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch user info")
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil || info.ID == "" || info.Email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user info")
	}

	pair, _, err := h.authService.LoginWithGoogle(ctx, info.ID, info.Email, info.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	redirect := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(pair.AccessToken) +
		"&refresh_token=" + url.QueryEscape(pair.RefreshToken)
	return c.Redirect(http.StatusTemporaryRedirect, redirect)
}
