package claims

import jwt "github.com/dgrijalva/jwt-go"

type contextKey string

const (
	TokenContextKey contextKey = "token"
)

type Claims struct {
	UserID int64 `json:"userId"`
	jwt.StandardClaims
}
