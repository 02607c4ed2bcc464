package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidToken     = errors.New("invalid token")
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// TokenCodec signs and verifies session tokens with one shared HMAC secret.
// A zero ttl issues tokens without an expiry claim.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration, issuer string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

func (c *TokenCodec) GenerateJWT(userID string) (string, error) {
	now := c.now()
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: now.Unix(),
			Issuer:   c.issuer,
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = now.Add(c.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return tokenString, nil
}

func (c *TokenCodec) ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				return nil, ErrInvalidSignature
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
