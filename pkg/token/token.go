// Package token issues and verifies the bearer credential. Role and
// status are embedded at issuance and are not re-read from the store per
// request: after an admin approval the caller keeps seeing its old status
// until it logs in again.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"washride/pkg/models"
)

var ErrInvalid = errors.New("invalid token")

type Claims struct {
	AccountID int64
	Role      models.Role
	Status    models.AccountStatus
}

type Maker struct {
	secret []byte
	ttl    time.Duration
}

func NewMaker(secret []byte, ttl time.Duration) *Maker {
	return &Maker{secret: secret, ttl: ttl}
}

func (m *Maker) Issue(accountID int64, role models.Role, status models.AccountStatus) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":    "washride",
		"sub":    accountID,
		"role":   string(role),
		"status": string(status),
		"iat":    now.Unix(),
		"exp":    now.Add(m.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func (m *Maker) Verify(tokenStr string) (*Claims, error) {
	t, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalid
	}
	mc, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return nil, ErrInvalid
	}

	sub, ok := mc["sub"].(float64)
	if !ok {
		return nil, ErrInvalid
	}
	role, ok := mc["role"].(string)
	if !ok {
		return nil, ErrInvalid
	}
	status, ok := mc["status"].(string)
	if !ok {
		return nil, ErrInvalid
	}

	return &Claims{
		AccountID: int64(sub),
		Role:      models.Role(role),
		Status:    models.AccountStatus(status),
	}, nil
}
