package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startJWKSServer(t *testing.T, kid string, key *ecdsa.PrivateKey) *httptest.Server {
	t.Helper()

	set := jwkSet{Keys: []jwk{{
		Kty: "EC",
		Crv: "P-256",
		Kid: kid,
		X:   base64.RawURLEncoding.EncodeToString(key.X.Bytes()),
		Y:   base64.RawURLEncoding.EncodeToString(key.Y.Bytes()),
	}}}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
}

func signES256(t *testing.T, key *ecdsa.PrivateKey, kid, issuer, subject, audience string, expiry time.Duration) string {
	t.Helper()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: "user@example.com",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	srv := startJWKSServer(t, "key-1", key)
	defer srv.Close()

	cache := NewJWKSCache(srv.URL)
	verifier := NewVerifier(cache, "pocketledger", "pocketledger-api")

	token := signES256(t, key, "key-1", "pocketledger", "ext-sub-42", "pocketledger-api", time.Hour)

	principal, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ext-sub-42", principal.ExternalSubject)
	assert.Equal(t, "user@example.com", principal.Email)
	assert.False(t, principal.Legacy)
}

func TestVerifier_Verify_RejectsExpiredToken(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	srv := startJWKSServer(t, "key-1", key)
	defer srv.Close()

	cache := NewJWKSCache(srv.URL)
	verifier := NewVerifier(cache, "pocketledger", "pocketledger-api")

	token := signES256(t, key, "key-1", "pocketledger", "ext-sub-42", "pocketledger-api", -time.Hour)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifier_Verify_RejectsWrongIssuer(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	srv := startJWKSServer(t, "key-1", key)
	defer srv.Close()

	cache := NewJWKSCache(srv.URL)
	verifier := NewVerifier(cache, "pocketledger", "pocketledger-api")

	token := signES256(t, key, "key-1", "someone-else", "ext-sub-42", "pocketledger-api", time.Hour)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifier_Verify_UnknownKidRefetchesAndFails(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	srv := startJWKSServer(t, "key-1", key)
	defer srv.Close()

	cache := NewJWKSCache(srv.URL)
	verifier := NewVerifier(cache, "pocketledger", "pocketledger-api")

	otherKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	token := signES256(t, otherKey, "unknown-kid", "pocketledger", "ext-sub-42", "pocketledger-api", time.Hour)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestLegacyVerifier_Verify(t *testing.T) {
	v := NewLegacyVerifier("super-secret", "pocketledger")

	claims := &LegacyClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "17",
			Issuer:    "pocketledger",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "legacy@example.com",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("super-secret"))
	require.NoError(t, err)

	principal, err := v.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "17", principal.ExternalSubject)
	assert.True(t, principal.Legacy)
}

func TestLegacyVerifier_Verify_RejectsWrongSecret(t *testing.T) {
	v := NewLegacyVerifier("super-secret", "pocketledger")

	claims := &LegacyClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "17",
			Issuer:    "pocketledger",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, err = v.Verify(signed)
	assert.Error(t, err)
}
