package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// LegacyClaims is the claim shape issued by the deprecated HS256 login
// path. It carries the internal user id directly, since pre-migration
// accounts predate the external-subject model.
type LegacyClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// LegacyVerifier validates the deprecated HS256 token format. It is only
// ever consulted as a second chance after the primary ES256 verifier
// rejects a token outright (Design Note §9.6: no standalone legacy-only
// middleware), and can be disabled entirely via configuration.
type LegacyVerifier struct {
	secret []byte
	issuer string
}

// NewLegacyVerifier builds a LegacyVerifier. secret must be non-empty;
// callers gate construction on LEGACY_AUTH_ENABLED.
func NewLegacyVerifier(secret, issuer string) *LegacyVerifier {
	return &LegacyVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates tokenString as a legacy HS256 token.
func (v *LegacyVerifier) Verify(tokenString string) (*Principal, error) {
	claims := &LegacyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, fmt.Errorf("legacy token invalid: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("legacy token invalid")
	}

	return &Principal{
		ExternalSubject: claims.Subject,
		Email:           claims.Email,
		Legacy:          true,
	}, nil
}
