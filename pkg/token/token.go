package token

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/dgrijalva/jwt-go"

	"accountsvc/pkg/claims"
)

var ErrInvalidToken = errors.New("invalid token")

const TTL = time.Hour

// Issuer signs and verifies short-lived HS256 bearer tokens. Verification
// is stateless: a valid signature with an unexpired claim is accepted even
// if the user's session was deleted.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: TTL}
}

func (i *Issuer) Issue(userID int64) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims.Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(i.ttl).Unix(),
		},
	})
	return t.SignedString(i.secret)
}

func (i *Issuer) Verify(tokenString string) (*claims.Claims, error) {
	parsed := &claims.Claims{}

	t, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (interface{}, error) {
		method, ok := t.Method.(*jwt.SigningMethodHMAC)
		if !ok || method.Alg() != "HS256" {
			return nil, errors.New("bad sign method")
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}

	return parsed, nil
}
