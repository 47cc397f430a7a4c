// Package jwt implements the token service: issuing and verifying the
// signed, time-boxed bearer tokens that carry a user's identity between
// requests. Tokens are HS256-signed with a server-held secret and embed
// only the user id and username, never credentials.
package jwt

import (
	"errors"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// TokenError represents JWT token related errors.
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	// DefaultAccessTokenExpire is the token lifetime when none is configured.
	DefaultAccessTokenExpire = time.Hour

	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	// ErrExpired means the token was well-formed and correctly signed but
	// its expiry has elapsed.
	ErrExpired = TokenError("token expired")
	// ErrInvalidSignature means the signature does not match the server key.
	ErrInvalidSignature = TokenError("token signature invalid")
	// ErrMalformed means the token could not be parsed at all.
	ErrMalformed = TokenError("token malformed")
)

// Identity is the claim set embedded in an access token.
type Identity struct {
	UserID   string
	Username string
}

// TokenManager handles JWT token operations. Issue and Verify are pure
// functions of their input, the key, and the clock; the manager holds no
// mutable state and is safe for concurrent use.
type TokenManager struct {
	key    string
	expire time.Duration
}

// NewTokenManager creates a new TokenManager instance. A non-positive
// expire falls back to DefaultAccessTokenExpire.
func NewTokenManager(key string, expire time.Duration) *TokenManager {
	if expire <= 0 {
		expire = DefaultAccessTokenExpire
	}
	return &TokenManager{key: key, expire: expire}
}

// validateKey validates the token key.
func (jtm *TokenManager) validateKey() error {
	if jtm.key == "" {
		return ErrNeedTokenProvider
	}
	return nil
}

// Issue generates a signed access token embedding the given identity.
func (jtm *TokenManager) Issue(id Identity) (string, error) {
	if err := jtm.validateKey(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwtstd.MapClaims{
		"jti": nanoid.Must(),
		"sub": "access",
		"iat": now.Unix(),
		"exp": now.Add(jtm.expire).Unix(),
		"payload": map[string]any{
			"user_id":  id.UserID,
			"username": id.Username,
		},
	}

	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	return t.SignedString([]byte(jtm.key))
}

// Verify validates a token and returns the embedded identity.
// Failures are classified: ErrExpired when the expiry has elapsed,
// ErrInvalidSignature when the signature does not match, ErrMalformed
// for anything unparseable or missing its identity payload.
func (jtm *TokenManager) Verify(tokenString string) (*Identity, error) {
	claims, err := jtm.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		UserID:   GetUserIDFromToken(claims),
		Username: GetUsernameFromToken(claims),
	}
	if id.UserID == "" {
		return nil, ErrMalformed
	}
	return id, nil
}

// Decode parses and validates a token, returning its raw claims.
func (jtm *TokenManager) Decode(tokenString string) (map[string]any, error) {
	if err := jtm.validateKey(); err != nil {
		return nil, err
	}

	token, err := jwtstd.Parse(tokenString, func(token *jwtstd.Token) (any, error) {
		if _, ok := token.Method.(*jwtstd.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return []byte(jtm.key), nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	if !token.Valid {
		return nil, ErrMalformed
	}
	return token.Claims.(jwtstd.MapClaims), nil
}

// GetTokenExpiryTime extracts the expiration time from a token.
func (jtm *TokenManager) GetTokenExpiryTime(tokenString string) (time.Time, error) {
	claims, err := jtm.Decode(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, ErrMalformed
	}

	return time.Unix(int64(exp), 0), nil
}

// classifyError folds golang-jwt parse errors into the package taxonomy.
func classifyError(err error) error {
	switch {
	case errors.Is(err, jwtstd.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwtstd.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
