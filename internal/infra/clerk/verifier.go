// Package clerk verifies Clerk session tokens (RS256 JWTs) against the
// instance's JWKS endpoint and resolves them into the owner's user id.
package clerk

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("clerk")

var _ port.TokenVerifier = (*Verifier)(nil)

// Config configures a Verifier. Issuer and Audience are enforced when set.
type Config struct {
	JWKSURL  string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Verifier validates session tokens. Signing keys are cached by kid; an
// unknown kid triggers one JWKS refresh shared by concurrent callers.
type Verifier struct {
	cfg        Config
	httpClient *http.Client
	keys       port.Cache[*rsa.PublicKey]
	refresh    singleflight.Group
	logger     *zap.Logger
}

// NewVerifier creates a Verifier backed by keys for signing-key caching.
func NewVerifier(cfg Config, httpClient *http.Client, keys port.Cache[*rsa.PublicKey], logger *zap.Logger) *Verifier {
	return &Verifier{cfg: cfg, httpClient: httpClient, keys: keys, logger: logger}
}

// Verify returns the token's subject (the Clerk user id).
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	ctx, span := tracer.Start(ctx, "Clerk.Verify")
	defer span.End()

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.cfg.Leeway),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("kid not found in token header")
		}
		return v.key(ctx, kid)
	}, opts...)
	if err != nil {
		v.logger.Debug("clerk: token rejected", zap.Error(err))
		return "", &domain.ErrUnauthorized{Message: "invalid session token"}
	}
	if claims.Subject == "" {
		return "", &domain.ErrUnauthorized{Message: "session token has no subject"}
	}
	return claims.Subject, nil
}

func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if k, ok := v.keys.Get(kid); ok {
		return k, nil
	}
	_, err, _ := v.refresh.Do("jwks", func() (any, error) {
		return nil, v.fetchKeys(ctx)
	})
	if err != nil {
		return nil, err
	}
	if k, ok := v.keys.Get(kid); ok {
		return k, nil
	}
	return nil, fmt.Errorf("key with kid %s not found", kid)
}

type jwks struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		Use string `json:"use"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (v *Verifier) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.cfg.JWKSURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Error("clerk: jwks fetch failed", zap.Error(err))
		return &domain.ErrExternalService{Service: "clerk", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.ErrExternalService{Service: "clerk", Err: fmt.Errorf("jwks returned %d", resp.StatusCode)}
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}
	loaded := 0
	for _, k := range set.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			v.logger.Warn("clerk: skipping malformed jwk", zap.String("kid", k.Kid), zap.Error(err))
			continue
		}
		v.keys.Set(k.Kid, pub)
		loaded++
	}
	v.logger.Debug("clerk: jwks refreshed", zap.Int("keys", loaded))
	return nil
}

// parseRSAPublicKey builds a key from base64url modulus and exponent.
func parseRSAPublicKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}
	exp := new(big.Int).SetBytes(eb)
	if !exp.IsInt64() || exp.Int64() < 2 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(exp.Int64())}, nil
}

// StaticVerifier accepts "dev_<user id>" tokens. Wired only with
// STORE_BACKEND=memory for local development and tests.
type StaticVerifier struct{}

const devTokenPrefix = "dev_"

func (StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	userID, ok := strings.CutPrefix(token, devTokenPrefix)
	if !ok || userID == "" {
		return "", &domain.ErrUnauthorized{Message: "invalid session token"}
	}
	return userID, nil
}
