package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// jwk is a single entry of a JSON Web Key Set, restricted to the EC fields
// ES256 tokens actually use.
type jwk struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// JWKSCache fetches and caches EC public keys by kid. It is safe for
// concurrent use. A miss triggers a single refetch shared by every
// concurrent caller that misses at the same time, so a key rotation never
// causes a thundering herd against the JWKS endpoint.
type JWKSCache struct {
	url        string
	httpClient *http.Client

	mu      sync.RWMutex
	keys    map[string]*ecdsa.PublicKey
	refetch chan struct{}
}

// NewJWKSCache creates a cache pointed at url. An initial best-effort fetch
// is attempted synchronously so the first request doesn't pay the latency;
// failure here is not fatal, since Key will retry on demand.
func NewJWKSCache(url string) *JWKSCache {
	c := &JWKSCache{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]*ecdsa.PublicKey),
	}
	_ = c.refresh()
	return c
}

// Key returns the EC public key for kid, refetching the set once if the key
// is not currently cached.
func (c *JWKSCache) Key(kid string) (*ecdsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	c.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := c.refreshOnce(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("jwks: no key found for kid %q", kid)
	}
	return key, nil
}

// refreshOnce ensures only one refetch happens at a time; callers that
// arrive while a refetch is already in flight wait for it instead of firing
// their own request.
func (c *JWKSCache) refreshOnce() error {
	c.mu.Lock()
	if c.refetch != nil {
		wait := c.refetch
		c.mu.Unlock()
		<-wait
		return nil
	}
	done := make(chan struct{})
	c.refetch = done
	c.mu.Unlock()

	err := c.refresh()

	c.mu.Lock()
	c.refetch = nil
	c.mu.Unlock()
	close(done)

	return err
}

func (c *JWKSCache) refresh() error {
	resp, err := c.httpClient.Get(c.url)
	if err != nil {
		return fmt.Errorf("jwks: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: unexpected status %d", resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("jwks: decode: %w", err)
	}

	keys := make(map[string]*ecdsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "EC" || k.Crv != "P-256" {
			continue
		}
		pub, err := keyFromJWK(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	c.mu.Lock()
	c.keys = keys
	c.mu.Unlock()
	return nil
}

func keyFromJWK(k jwk) (*ecdsa.PublicKey, error) {
	xBytes, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("jwks: decode x: %w", err)
	}
	yBytes, err := base64.RawURLEncoding.DecodeString(k.Y)
	if err != nil {
		return nil, fmt.Errorf("jwks: decode y: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}
