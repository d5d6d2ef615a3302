package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
)

// JWTManager issues and verifies stateless session tokens.
// Now is the injected clock; it defaults to time.Now.
type JWTManager struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

var defaultManager *JWTManager

func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	m := &JWTManager{
		Secret: []byte(secret),
		Issuer: issuer,
		TTL:    ttl,
		Now:    time.Now,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

type Claims struct {
	UserID string      `json:"uid"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionToken is a minted token with the claims it asserts.
type SessionToken struct {
	Token     string
	UserID    string
	Role      entity.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (m *JWTManager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// IssueToken signs a token binding userID and role for the configured TTL.
func (m *JWTManager) IssueToken(userID string, role entity.Role) (SessionToken, error) {
	if userID == "" || !role.Valid() {
		return SessionToken{}, errors.New("token subject and role are required")
	}
	iat := m.now().UTC().Truncate(time.Second)
	exp := iat.Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: s, UserID: userID, Role: role, IssuedAt: iat, ExpiresAt: exp}, nil
}

// VerifyToken checks signature and expiry and returns the decoded claims.
// Failures are TokenExpired or TokenInvalid.
func (m *JWTManager) VerifyToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.Issuer))
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Wrap(apperror.CodeTokenExpired, apperror.ErrTokenExpired.Message, err)
		}
		return nil, apperror.Wrap(apperror.CodeTokenInvalid, apperror.ErrTokenInvalid.Message, err)
	}
	if !tkn.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, apperror.ErrTokenInvalid
	}
	return claims, nil
}
