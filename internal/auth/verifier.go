package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates ES256 access tokens against a JWKS-backed key set.
// It is the primary token path (Design Note §9: "do not depend on a
// framework filter chain").
type Verifier struct {
	jwks     *JWKSCache
	issuer   string
	audience string
}

// NewVerifier builds a Verifier against the given JWKS cache.
func NewVerifier(jwks *JWKSCache, issuer, audience string) *Verifier {
	return &Verifier{jwks: jwks, issuer: issuer, audience: audience}
}

// Verify parses and validates tokenString, returning the resolved Principal.
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"ES256"}), jwt.WithIssuer(v.issuer)}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token missing kid header")
		}
		return v.jwks.Key(kid)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token invalid: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token invalid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	return &Principal{
		ExternalSubject: claims.Subject,
		Email:           claims.Email,
	}, nil
}
