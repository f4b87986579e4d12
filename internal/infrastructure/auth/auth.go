package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"jan-server/services/model-browser/internal/config"
	"jan-server/services/model-browser/internal/domain"
	"jan-server/services/model-browser/internal/infrastructure/metrics"
)

// LocalPrincipalID identifies the caller when authentication is disabled.
const LocalPrincipalID = "local-dev"

// Validator validates JWTs using JWKS and attaches the caller's principal to the request context.
type Validator struct {
	cfg     *config.Config
	log     zerolog.Logger
	keyfunc jwt.Keyfunc
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		log.Warn().Str("group", cfg.AdminGroup).Msg("authentication disabled, requests run as local administrator")
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:     cfg,
		log:     log,
		keyfunc: jwks.Keyfunc,
	}, nil
}

// Middleware enforces JWT auth when enabled.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		local := domain.Principal{
			ID:       LocalPrincipalID,
			Subject:  LocalPrincipalID,
			Username: LocalPrincipalID,
			Groups:   []string{v.adminGroup()},
		}
		return func(c *gin.Context) {
			setPrincipal(c, local)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			metrics.RecordAuth("missing")
			abortUnauthorized(c, "missing bearer token")
			return
		}

		principal, err := v.Authenticate(tokenString)
		if err != nil {
			metrics.RecordAuth("invalid")
			v.log.Warn().Err(err).Str("path", c.FullPath()).Msg("jwt validation failed")
			abortUnauthorized(c, "invalid token")
			return
		}

		metrics.RecordAuth("ok")
		setPrincipal(c, principal)
		c.Next()
	}
}

// Authenticate verifies a raw bearer token and maps its claims to a principal.
func (v *Validator) Authenticate(tokenString string) (domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc,
		jwt.WithAudience(v.cfg.AuthAudience),
		jwt.WithIssuer(v.cfg.AuthIssuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	)
	if err != nil {
		return domain.Principal{}, err
	}
	if !token.Valid {
		return domain.Principal{}, jwt.ErrTokenSignatureInvalid
	}
	return claims.Principal(), nil
}

func (v *Validator) adminGroup() string {
	if v == nil || v.cfg == nil {
		return "admin"
	}
	return v.cfg.AdminGroup
}

// Claims are the OIDC claims the service understands.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string   `json:"preferred_username"`
	Email             string   `json:"email"`
	Groups            []string `json:"groups"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// Principal converts verified claims into a domain principal.
func (c *Claims) Principal() domain.Principal {
	groups := make([]string, 0, len(c.Groups)+len(c.RealmAccess.Roles))
	seen := make(map[string]struct{}, cap(groups))
	for _, g := range append(append([]string{}, c.Groups...), c.RealmAccess.Roles...) {
		g = strings.TrimPrefix(strings.TrimSpace(g), "/")
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}

	return domain.Principal{
		ID:       c.Subject,
		Subject:  c.Subject,
		Issuer:   c.Issuer,
		Username: c.PreferredUsername,
		Email:    c.Email,
		Groups:   groups,
	}
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set("principal", principal)
	c.Set("user_id", principal.ID)
	c.Request = c.Request.WithContext(domain.WithPrincipal(c.Request.Context(), principal))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
