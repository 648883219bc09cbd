package http

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/planora/backoffice/internal/core/domain"
)

const userLocalsKey = "user"

type userCtxKey struct{}

// Claims are the token claims issued by the identity provider. The
// subject is the owner id.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator creates an Authenticator. An empty issuer accepts any.
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Parse validates token and returns the user it identifies.
func (a *Authenticator) Parse(token string) (domain.User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return domain.User{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return domain.User{ID: claims.Subject, Name: claims.Name}, nil
}

// Issue signs a token for user valid for ttl.
func (a *Authenticator) Issue(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// RequireAuth rejects requests without a valid bearer token. WebSocket
// clients that cannot set headers may pass the token as ?token=.
func RequireAuth(a *Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return errUnauthorized(c, "missing bearer token")
		}

		user, err := a.Parse(token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				return errInternal(c, "internal server error")
			}
			return errUnauthorized(c, "invalid token")
		}

		c.Locals(userLocalsKey, user)
		c.SetUserContext(WithUser(c.UserContext(), user))
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the authenticated user stored in ctx.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(domain.User)
	return u, ok && u.ID != ""
}

// currentUser returns the authenticated user of the request.
func currentUser(c *fiber.Ctx) (domain.User, bool) {
	u, ok := c.Locals(userLocalsKey).(domain.User)
	return u, ok && u.ID != ""
}
