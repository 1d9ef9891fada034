package auth

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrInvalidToken is returned by Verify for tokens that are malformed, signed
// with another key or algorithm, or missing the user id.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the payload of a token.
type Claims struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a shared secret. Tokens carry no
// expiry, so issuing the same claims twice yields the same token.
type Codec struct {
	secret []byte
	parser *jwt.Parser
	cache  *ristretto.Cache[string, Claims]
}

// CodecOption configures a Codec.
type CodecOption func(*codecOptions)

type codecOptions struct {
	cacheSize int64
}

// WithCacheSize bounds the number of verified tokens kept in memory. Zero
// disables the cache.
func WithCacheSize(n int64) CodecOption {
	return func(o *codecOptions) { o.cacheSize = n }
}

// NewCodec returns a Codec for secret.
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}

	o := codecOptions{cacheSize: 10000}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Codec{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
	if o.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, Claims]{
			NumCounters: o.cacheSize * 10,
			MaxCost:     o.cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, errors.Wrap(err, "creating token cache")
		}
		c.cache = cache
	}
	return c, nil
}

// Close releases the verification cache.
func (c *Codec) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Issue signs claims.
func (c *Codec) Issue(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	ss, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify checks the signature of token and returns its claims.
func (c *Codec) Verify(token string) (Claims, error) {
	if c.cache != nil {
		if claims, ok := c.cache.Get(token); ok {
			return claims, nil
		}
	}

	var claims Claims
	parsed, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !parsed.Valid || claims.ID == "" {
		return Claims{}, ErrInvalidToken
	}

	if c.cache != nil {
		c.cache.Set(token, claims, 1)
	}
	return claims, nil
}
