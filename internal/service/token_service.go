package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService emite, verifica y reemite tokens de sesión firmados con HS256.
// Los tokens no se guardan en el servidor: valen hasta expirar o fallar firma.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenUser es la forma canonica del objeto user dentro del token.
// Nunca lleva mas campos que email y uuid.
type TokenUser struct {
	Email string `json:"email"`
	UUID  string `json:"uuid"`
}

// Claims es el payload completo del token de sesión.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// DefaultTokenTTL es la vida util por defecto de un token de sesión.
const DefaultTokenTTL = 7 * 24 * time.Hour

// NewTokenService crea un TokenService con el secreto inyectado. Con ttl <= 0
// usa DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue firma un token con subject = email, iat = ahora y exp = ahora + ttl.
func (s *TokenService) Issue(user TokenUser) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()
	return s.sign(user, now, now.Add(s.ttl))
}

// Verify valida firma, estructura y expiración del token.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// Refresh verifica el token y emite uno nuevo con los mismos email y uuid.
// El decode tipado descarta cualquier campo extra del payload original, y el
// exp nuevo nunca es menor que el del token entrante.
func (s *TokenService) Refresh(tokenString string) (string, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return "", err
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.After(expiresAt) {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.sign(claims.User, now, expiresAt)
}

func (s *TokenService) sign(user TokenUser, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
