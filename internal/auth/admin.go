package auth

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier accepts a credential pair and returns grant or deny. The
// admin gate talks only to this boundary so a real credential backend
// can replace the static pair without touching the handlers.
type Verifier interface {
	Verify(username, password string) bool
}

// StaticVerifier checks against a single configured credential pair.
// This is a placeholder gate, not authentication: the pair lives in
// configuration and the compare is constant-time, nothing more.
type StaticVerifier struct {
	username string
	password string
}

func NewStaticVerifier(username, password string) *StaticVerifier {
	return &StaticVerifier{username: username, password: password}
}

func (v *StaticVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	return userOK && passOK
}

// Issuer mints the HS256 grant handed out on a successful admin login.
type Issuer struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{
		secretKey: []byte(secret),
		ttl:       time.Hour,
		now:       time.Now,
	}
}

func (i *Issuer) Issue(username string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secretKey)
}
