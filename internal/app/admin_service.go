package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// AdminService issues and verifies the bearer tokens that protect the
// telemetry dashboard endpoints.
type AdminService struct {
	password string
	secret   string
	ttl      time.Duration
}

func NewAdminService(password, secret string, ttl time.Duration) *AdminService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminService{password: password, secret: secret, ttl: ttl}
}

// Login exchanges the admin password for a signed token.
func (s *AdminService) Login(password string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("admin service is nil")
	}
	if s.password == "" || s.secret == "" {
		return "", fmt.Errorf("admin config is incomplete")
	}
	if password != s.password {
		return "", fmt.Errorf("invalid admin password")
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks a token's signature, expiry and role claim.
func (s *AdminService) Verify(tokenString string) error {
	if s == nil || s.secret == "" {
		return fmt.Errorf("admin config is incomplete")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid admin token")
	}
	if claims["role"] != "admin" {
		return fmt.Errorf("token lacks admin role")
	}
	return nil
}
