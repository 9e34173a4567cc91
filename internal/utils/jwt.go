package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random data for incident identifiers
	"crypto/sha256" // SHA-256 hashing for revocation keys
	"encoding/hex"  // hex encoding of digests and random bytes
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Token verification failures.  Callers must not surface the distinction to
// clients: both collapse into the same generic invalid-credentials rejection
// so nothing about the internal state of the token leaks.
var (
	ErrMalformedToken = errors.New("malformed or invalid token")
	ErrMissingSubject = errors.New("token has no subject claim")
)

// AccessToken is a signed JWT access token along with its expiry.  Access
// tokens are short-lived bearer credentials sent in the Authorization header.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The token claims
// carry the subject (sub = username), expiration (exp = now + ttl) and
// issued-at (iat) timestamps.  The signature covers all of them, so neither
// the subject nor the expiry can be tampered with.
func NewAccessToken(secret, username string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": username,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a token string.  It returns the
// subject username and the token expiry.  A bad signature, unexpected
// signing method, expired token or structurally broken string yields
// ErrMalformedToken; a valid token without a subject yields
// ErrMissingSubject.
func VerifyAccessToken(secret, raw string) (string, time.Time, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC before touching claims.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", time.Time{}, ErrMalformedToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, ErrMalformedToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", time.Time{}, ErrMissingSubject
	}
	exp := time.Time{}
	if expClaim, err := claims.GetExpirationTime(); err == nil && expClaim != nil {
		exp = expClaim.Time
	}
	return sub, exp, nil
}

// HashToken returns the SHA-256 hex digest of a token string.  Revocation
// entries are keyed by this digest so raw bearer tokens never appear in the
// registry or in Redis keys.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewIncidentID returns a short random identifier attached to server-fault
// log lines and error responses so a client report can be correlated with
// the full internal log entry.
func NewIncidentID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}
