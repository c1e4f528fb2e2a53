package auth

import (
	"fmt"
	"time"

	"feedback-service/internal/biz"
	"feedback-service/internal/conf"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenManager issues and verifies the HS256 session tokens that guard
// administrative writes. Credentials are a single configured operator
// account; the stored password is a bcrypt hash.
type TokenManager struct {
	secret       []byte
	expiry       time.Duration
	adminEmail   string
	passwordHash []byte
}

func NewTokenManager(c *conf.Auth) *TokenManager {
	expiry := c.Expiry.AsDuration()
	if expiry == 0 {
		expiry = 24 * time.Hour
	}
	return &TokenManager{
		secret:       []byte(c.Secret),
		expiry:       expiry,
		adminEmail:   c.AdminEmail,
		passwordHash: []byte(c.AdminPasswordHash),
	}
}

// Login checks the operator credentials and returns a signed token.
func (m *TokenManager) Login(email, password string) (string, error) {
	if email != m.adminEmail {
		return "", biz.ErrAuthRequired
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", biz.ErrAuthRequired
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(m.expiry).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses a presented token and returns the session it proves.
// Any parse, signature or expiry failure comes back as AuthRequired.
func (m *TokenManager) Verify(tokenString string) (*biz.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, biz.ErrAuthRequired
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, biz.ErrAuthRequired
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, biz.ErrAuthRequired
	}
	return &biz.Session{Subject: sub}, nil
}
