package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the set of registered and custom claims this service expects on
// an ES256 access token. The subject is the identity provider's external
// user id; the internal id is resolved by the caller (service layer), never
// trusted directly off the token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Principal is the authenticated caller, resolved from either the primary
// ES256 path or the legacy HS256 fallback.
type Principal struct {
	ExternalSubject string
	Email           string
	Legacy          bool
}
