package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// IssuedToken is a signed bearer token plus the data the server keeps about it.
type IssuedToken struct {
	Token     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// TokenIssuer signs and verifies HS256 bearer tokens. Each token carries a
// unique jti so a single session can be revoked server-side.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. A zero ttl issues tokens without expiry.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(userID string) (*IssuedToken, error) {
	now := i.now().UTC()
	issued := &IssuedToken{ID: uuid.NewString(), IssuedAt: now}

	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			Id:       issued.ID,
			Subject:  userID,
			IssuedAt: now.Unix(),
		},
	}
	if i.ttl > 0 {
		exp := now.Add(i.ttl)
		issued.ExpiresAt = &exp
		claims.ExpiresAt = exp.Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	issued.Token = signed
	return issued, nil
}

func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Id == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
