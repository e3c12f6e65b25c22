package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionCookieName carries the signed session token. The unusual name is
	// traffic reduction only; the token signature is the actual boundary.
	SessionCookieName = "venkat_hidden_tab"

	SessionTTL = 8 * time.Hour

	nonceBytes = 16
)

var ErrSessionsDisabled = errors.New("session service: no password configured")

// SessionService gates the hidden area behind one shared secret using
// stateless signed tokens. No session state is stored server-side: a token is
// `expiresAtMillis.nonce.signature` where the signature is HMAC-SHA256 over
// the first two fields keyed by the signing secret.
//
// The signing secret defaults to the password itself, so rotating the
// password invalidates every outstanding token at once. That is intentional.
type SessionService struct {
	password      string
	passwordHash  string
	signingSecret []byte
	now           func() time.Time
}

// NewSessionService builds the authenticator from environment-sourced values.
// password may be empty (feature disabled) or replaced by a bcrypt hash; in
// hashed mode an explicit signing secret is mandatory because the hash is not
// secret enough to key the HMAC.
func NewSessionService(password, passwordHash, signingSecret string, now func() time.Time) *SessionService {
	if now == nil {
		now = time.Now
	}

	secret := strings.TrimSpace(signingSecret)
	password = strings.TrimSpace(password)
	passwordHash = strings.TrimSpace(passwordHash)

	if passwordHash != "" {
		// Hashed mode wins over a stray plaintext value.
		password = ""
	} else if secret == "" {
		secret = password
	}

	s := &SessionService{
		password:     password,
		passwordHash: passwordHash,
		now:          now,
	}
	if secret != "" {
		s.signingSecret = []byte(secret)
	}
	return s
}

// Enabled reports whether the hidden area is usable at all. The page
// boundary surfaces a disabled feature as an explanatory message; the API
// boundary treats it as not-found.
func (s *SessionService) Enabled() bool {
	if len(s.signingSecret) == 0 {
		return false
	}
	return s.password != "" || s.passwordHash != ""
}

// IsPasswordMatch compares a candidate against the configured password.
// Length mismatches may return early; equal-length comparisons are constant
// time. Bcrypt mode delegates to bcrypt's own comparison.
func (s *SessionService) IsPasswordMatch(candidate string) bool {
	if !s.Enabled() {
		return false
	}

	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(candidate)) == nil
	}

	if len(candidate) != len(s.password) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.password)) == 1
}

// CreateToken issues a session token expiring SessionTTL from now.
func (s *SessionService) CreateToken() (string, error) {
	if !s.Enabled() {
		return "", ErrSessionsDisabled
	}

	expiresAt := s.now().Add(SessionTTL).UnixMilli()
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session service: generate nonce: %w", err)
	}

	payload := strconv.FormatInt(expiresAt, 10) + "." + hex.EncodeToString(nonce)
	return payload + "." + s.sign(payload), nil
}

// IsTokenValid verifies a session token. It returns false for anything that
// is not exactly three dot-separated fields with an unexpired timestamp and a
// matching signature; it never panics.
func (s *SessionService) IsTokenValid(token string) bool {
	if token == "" || !s.Enabled() {
		return false
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}

	expiresAt, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	if expiresAt <= s.now().UnixMilli() {
		return false
	}

	expected := s.sign(parts[0] + "." + parts[1])
	return subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) == 1
}

func (s *SessionService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.signingSecret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// CookieMaxAge is the session cookie lifetime in seconds, matching the token
// TTL.
func (s *SessionService) CookieMaxAge() int {
	return int(SessionTTL / time.Second)
}
