package managers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

// TokenValidity is the fixed lifetime of an identity token.
const TokenValidity = 7 * 24 * time.Hour

const (
	issuer          = "yool"
	minSecretLength = 32
)

var (
	ErrTokenMissing            = errors.New("token missing")
	ErrTokenExpired            = errors.New("token expired")
	ErrTokenInvalid            = errors.New("token invalid")
	ErrSigningKeyMisconfigured = errors.New("signing key misconfigured")
)

// JWTMgr issues and verifies identity tokens.
type JWTMgr interface {
	// GenerateJWT issues a token for subjectId, valid for TokenValidity.
	GenerateJWT(subjectId string) (string, error)
	// ValidateJWT returns the subject of a valid token. It fails with
	// ErrTokenMissing, ErrTokenExpired or ErrTokenInvalid and never panics.
	ValidateJWT(tokenString string) (string, error)
}

// JWTManager signs tokens with HS256 using a process-wide secret.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

// NewJWTManager creates a JWTManager. now is the clock used for issuance and
// expiry checks, time.Now if nil.
func NewJWTManager(secret string, now func() time.Time) (JWTMgr, error) {
	log.Info("Initializing JWT manager")
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("%w: secret must be at least %d bytes", ErrSigningKeyMisconfigured, minSecretLength)
	}
	if now == nil {
		now = time.Now
	}

	return &JWTManager{
		secret: []byte(secret),
		now:    now,
	}, nil
}

// GenerateJWT generates a new JWT for the given subject.
func (jm *JWTManager) GenerateJWT(subjectId string) (string, error) {
	if subjectId == "" {
		return "", fmt.Errorf("%w: empty subject", ErrTokenInvalid)
	}

	issuedAt := jm.now()
	// exp has whole second precision and is rounded up, never cutting the validity short
	expiresAt := issuedAt.Add(TokenValidity)
	if truncated := expiresAt.Truncate(time.Second); truncated.Before(expiresAt) {
		expiresAt = truncated.Add(time.Second)
	}

	claims := jwt.MapClaims{
		"iss": issuer,
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
		"sub": subjectId,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateJWT validates the given JWT and returns its subject if valid.
// A token is valid strictly before its expiry: exp <= now is expired.
func (jm *JWTManager) ValidateJWT(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrTokenMissing
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return jm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(jm.now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return "", ErrTokenInvalid
	}

	subjectId, err := token.Claims.GetSubject()
	if err != nil || subjectId == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return subjectId, nil
}
