package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session claims the API relies on.
type Claims struct {
	Subject string
	Email   string
}

// Verifier validates session tokens issued by the auth provider. HS256 tokens
// are checked against the shared secret, RS256 tokens against the JWKS.
type Verifier struct {
	secret []byte
	jwks   *Provider
}

func NewVerifier(secret string, jwks *Provider) *Verifier {
	return &Verifier{secret: []byte(secret), jwks: jwks}
}

func (v *Verifier) Verify(ctx context.Context, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if len(v.secret) == 0 {
				return nil, errors.New("HS256 token received but SUPABASE_JWT_SECRET is not configured")
			}
			return v.secret, nil
		case *jwt.SigningMethodRSA:
			if v.jwks == nil {
				return nil, errors.New("RS256 token received but no JWKS provider is configured")
			}
			kid, _ := token.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("RS256 token has no kid header")
			}
			return v.jwks.PublicKey(ctx, kid)
		}
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	})
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Claims{}, errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)
	return Claims{Subject: sub, Email: email}, nil
}
