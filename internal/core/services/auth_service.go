package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const adminRole = "admin"

type AuthService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(secret string, tokenTTL time.Duration) ports.AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthService) IssueAdminToken(subject string) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("admin JWT secret is not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": adminRole,
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) VerifyAdminToken(tokenString string) (*domain.Admin, error) {
	if len(s.jwtSecret) == 0 {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return nil, domain.ErrUnauthorized
	}

	subject, _ := claims.GetSubject()
	admin := &domain.Admin{Subject: subject}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		admin.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		admin.ExpiresAt = exp.Time
	}
	return admin, nil
}
