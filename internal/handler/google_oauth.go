package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"referly/config"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleOAuthHandler struct {
	cfg       *config.Config
	authSvc   *service.AuthService
	walletSvc *service.WalletService
	auditRepo *repository.AuditLogRepository
}

func NewGoogleOAuthHandler(cfg *config.Config, authSvc *service.AuthService, walletSvc *service.WalletService, auditRepo *repository.AuditLogRepository) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{cfg: cfg, authSvc: authSvc, walletSvc: walletSvc, auditRepo: auditRepo}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		RedirectURL:  h.cfg.OAuth.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// Redirect sends the browser to the Google consent screen.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		respondError(c, http.StatusServiceUnavailable, "OAUTH_UNAVAILABLE", "Google OAuth not configured")
		return
	}
	authURL := h.OAuth2Config().AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, authURL)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Callback exchanges the code for tokens, fetches user info and returns JWTs.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		respondError(c, http.StatusServiceUnavailable, "OAUTH_UNAVAILABLE", "Google OAuth not configured")
		return
	}
	code := c.Query("code")
	if code == "" {
		badRequest(c, "missing code")
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		badRequest(c, "code exchange failed")
		return
	}
	client := conf.Client(ctx, tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil || resp.StatusCode != http.StatusOK {
		respondError(c, http.StatusInternalServerError, "INTERNAL", "failed to get user info")
		return
	}
	defer resp.Body.Close()
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL", "invalid user info")
		return
	}
	h.finishLogin(c, info.ID, info.Email, info.Name, info.Picture)
}

// tokeninfoResponse is the response from https://oauth2.googleapis.com/tokeninfo?id_token=...
type tokeninfoResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Token accepts an ID token from a mobile client and returns JWTs.
func (h *GoogleOAuthHandler) Token(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		respondError(c, http.StatusServiceUnavailable, "OAUTH_UNAVAILABLE", "Google OAuth not configured")
		return
	}
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "id_token required")
		return
	}
	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(req.IDToken))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL", "token verification failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		badRequest(c, "invalid id_token")
		return
	}
	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL", "invalid token response")
		return
	}
	if info.Sub == "" || info.Email == "" {
		badRequest(c, "invalid token payload")
		return
	}
	h.finishLogin(c, info.Sub, info.Email, info.Name, info.Picture)
}

func (h *GoogleOAuthHandler) finishLogin(c *gin.Context, googleID, email, name, picture string) {
	u, access, refresh, isNew, err := h.authSvc.LoginWithGoogle(googleID, email, name, picture)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if isNew {
		_, _ = h.walletSvc.GetOrCreate(u.ID)
	}
	if h.auditRepo != nil {
		_ = h.auditRepo.Create(&models.AuditLog{
			UserID:    &u.ID,
			Action:    "google_oauth_login",
			Resource:  "auth",
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
	}
	respondOK(c, gin.H{"user": u, "access_token": access, "refresh_token": refresh, "is_new": isNew})
}
