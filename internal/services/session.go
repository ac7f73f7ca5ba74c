package services

import (
	"errors"
	"fmt"
	"time"

	"ems-web/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed access token")
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Cookie names used by the panel.
const (
	CookieJWT     = "JWT_TOKEN"
	CookieRefresh = "REFRESH_TOKEN"
	CookieSession = "EMS_SESSION"
)

// Claim type URIs emitted by the remote API's token issuer alongside the
// short registered names.
const (
	claimRoleURI  = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	claimNameURI  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	claimEmailURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
)

// Identity is the signed-in principal reconstructed from token claims.
type Identity struct {
	UserID   string
	UserName string
	Email    string
	Roles    []string
}

func (id Identity) HasRole(name string) bool {
	for _, role := range id.Roles {
		if role == name {
			return true
		}
	}
	return false
}

// SessionClaims is the locally signed session token payload.
type SessionClaims struct {
	UserName string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// SessionService bridges the remote API's JWT into a local cookie session.
// The remote token is decoded, never verified: the remote API issued it and
// remains the authority for every protected operation. The claims read here
// drive UI routing only.
type SessionService struct {
	cfg *config.Config
}

func NewSessionService(cfg *config.Config) *SessionService {
	return &SessionService{cfg: cfg}
}

// IdentityFromAccessToken extracts sub, name, email and all role claims
// from the remote JWT without signature verification.
func (s *SessionService) IdentityFromAccessToken(accessToken string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformedToken)
	}

	id := &Identity{
		UserID:   sub,
		UserName: stringClaim(claims, "name", claimNameURI),
		Email:    stringClaim(claims, "email", claimEmailURI),
		Roles:    roleClaims(claims),
	}
	if id.UserName == "" {
		id.UserName = id.UserID
	}
	return id, nil
}

// IssueSessionToken signs a local session token for the identity. Its
// lifetime is the configured cookie lifetime, not the remote token's exp.
func (s *SessionService) IssueSessionToken(id *Identity, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.cfg.Session.AccessLifetime())

	claims := SessionClaims{
		UserName: id.UserName,
		Email:    id.Email,
		Roles:    id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    s.cfg.Session.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Session.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifySessionToken checks the local session token's signature and expiry
// and reconstructs the principal.
func (s *SessionService) VerifySessionToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Session.Secret), nil
	}, jwt.WithIssuer(s.cfg.Session.Issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	return &Identity{
		UserID:   claims.Subject,
		UserName: claims.UserName,
		Email:    claims.Email,
		Roles:    claims.Roles,
	}, nil
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// roleClaims collects role values from both the short "role" claim and the
// full claim-type URI; either may hold a single string or a list.
func roleClaims(claims jwt.MapClaims) []string {
	var roles []string
	for _, key := range []string{"role", claimRoleURI} {
		switch v := claims[key].(type) {
		case string:
			roles = append(roles, v)
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					roles = append(roles, s)
				}
			}
		}
	}
	return roles
}
