package web

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"flerr-server/internal/config"
	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
)

const refreshCookieName = "flerr_refresh"

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID string   `json:"uid"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == model.RoleAdmin {
			return true
		}
	}
	return false
}

// AuthManager signs and verifies the two token kinds. Access tokens travel in
// the Authorization header; refresh tokens only in an httpOnly cookie.
type AuthManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	cookieDomain  string
	secureCookie  bool
}

func NewAuthManager(cfg config.AuthConfig, secureCookie bool) *AuthManager {
	return &AuthManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		cookieDomain:  cfg.CookieDomain,
		secureCookie:  secureCookie,
	}
}

func (am *AuthManager) IssueAccess(u *model.User) (string, error) {
	return am.sign(u, am.accessSecret, am.accessTTL)
}

func (am *AuthManager) IssueRefresh(u *model.User) (string, error) {
	return am.sign(u, am.refreshSecret, am.refreshTTL)
}

func (am *AuthManager) sign(u *model.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Roles:  u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (am *AuthManager) ParseAccess(token string) (*Claims, error) {
	return am.parse(token, am.accessSecret)
}

func (am *AuthManager) ParseRefresh(token string) (*Claims, error) {
	return am.parse(token, am.refreshSecret)
}

func (am *AuthManager) parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (am *AuthManager) SetRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		Domain:   am.cookieDomain,
		MaxAge:   int(am.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   am.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (am *AuthManager) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		Domain:   am.cookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   am.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
