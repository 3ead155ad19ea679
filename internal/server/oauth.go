package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	oauthStateCookie  = "oauth_state"
	oauthStateTTL     = 10 * time.Minute
)

// googleProfile is the subset of the OpenID userinfo response we use.
type googleProfile struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleOAuthHandler signs users in with Google and issues a session token.
type GoogleOAuthHandler struct {
	oauth       *oauth2.Config
	userService *UserService
	jwtService  *JWTService
	userInfoURL string
	secure      bool
	logger      *zap.Logger
}

// NewGoogleOAuthHandler creates the handler. The redirect URL is <app_url>/auth/google/callback.
func NewGoogleOAuthHandler(cfg config.OAuthConfig, userService *UserService, jwtService *JWTService, log *zap.Logger) *GoogleOAuthHandler {
	appURL := strings.TrimRight(cfg.AppURL, "/")
	return &GoogleOAuthHandler{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  appURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userService: userService,
		jwtService:  jwtService,
		userInfoURL: googleUserInfoURL,
		secure:      strings.HasPrefix(appURL, "https://"),
		logger:      logger.OrNop(log),
	}
}

// Login redirects to Google's consent screen with a fresh state cookie.
//
// @Summary Start Google sign-in
// @Tags auth
// @Success 302
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// Callback exchanges the authorization code, loads the Google profile and
// returns a session token for the matching account.
//
// @Summary Finish Google sign-in
// @Tags auth
// @Produce json
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} types.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth/google", MaxAge: -1, HttpOnly: true, Secure: h.secure})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		writeError(w, http.StatusUnauthorized, "Google sign-in was cancelled: "+errParam)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("google code exchange failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "Google sign-in failed")
		return
	}

	profile, err := h.fetchProfile(r, token)
	if err != nil {
		h.logger.Warn("google userinfo request failed", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "Google sign-in failed")
		return
	}
	if !profile.EmailVerified {
		writeError(w, http.StatusUnauthorized, "Google account email is not verified")
		return
	}

	user, err := h.userService.LoginWithGoogle(r.Context(), profile.Name, profile.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sessionToken, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeJSON(w, http.StatusOK, types.LoginResponse{User: user, Token: sessionToken})
}

func (h *GoogleOAuthHandler) fetchProfile(r *http.Request, token *oauth2.Token) (*googleProfile, error) {
	client := h.oauth.Client(r.Context(), token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned HTTP %d", resp.StatusCode)
	}
	var profile googleProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return &profile, nil
}
