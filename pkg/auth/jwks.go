package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const jwksMinRefresh = time.Minute

var errUnknownKid = errors.New("jwks: signing key not found")

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Provider holds the auth server's RSA signing keys, parsed once per fetch.
// An unknown kid refetches the set, but never more than once a minute.
type Provider struct {
	url  string
	http *resty.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func NewProvider(jwksURL string) *Provider {
	return &Provider{
		url:  jwksURL,
		http: resty.New().SetTimeout(10 * time.Second),
		keys: make(map[string]*rsa.PublicKey),
	}
}

// PublicKey returns the key for kid, refreshing the cached set on a miss.
func (p *Provider) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := p.cached(kid); ok {
		return key, nil
	}
	if err := p.refresh(ctx); err != nil {
		return nil, err
	}
	if key, ok := p.cached(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownKid, kid)
}

func (p *Provider) cached(kid string) (*rsa.PublicKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	key, ok := p.keys[kid]
	return key, ok
}

func (p *Provider) refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) > 0 && time.Since(p.fetchedAt) < jwksMinRefresh {
		return nil
	}

	var set jwkSet
	resp, err := p.http.R().SetContext(ctx).SetResult(&set).Get(p.url)
	if err != nil {
		return fmt.Errorf("jwks: fetch: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("jwks: unexpected status %d", resp.StatusCode())
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.rsaKey()
		if err != nil {
			return fmt.Errorf("jwks: key %s: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}
	p.keys = keys
	p.fetchedAt = time.Now()
	return nil
}

func (k jwk) rsaKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() < 2 {
		return nil, errors.New("bad exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}
