package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenVerifier checks bearer tokens against a shared HS256 secret or, when no
// secret is configured, against a remote JWKS.
type TokenVerifier struct {
	secret  []byte
	jwks    *keyfunc.JWKS
	methods []string
}

func NewTokenVerifier(ctx context.Context, secret, jwksURL string) (*TokenVerifier, error) {
	if secret != "" {
		return &TokenVerifier{secret: []byte(secret), methods: []string{jwt.SigningMethodHS256.Alg()}}, nil
	}
	if jwksURL == "" {
		return nil, errors.New("either a token secret or a JWKS url is required")
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %v", err)
	}
	return &TokenVerifier{
		jwks:    jwks,
		methods: []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodES256.Alg()},
	}, nil
}

func (v *TokenVerifier) Verify(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, v.lookupKey, jwt.WithValidMethods(v.methods))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Identity().IsZero() {
		return nil, fmt.Errorf("%w: token carries no user id", ErrInvalidToken)
	}
	return claims, nil
}

func (v *TokenVerifier) lookupKey(token *jwt.Token) (any, error) {
	if v.jwks != nil {
		return v.jwks.Keyfunc(token)
	}
	return v.secret, nil
}

// Close stops the background JWKS refresh.
func (v *TokenVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
