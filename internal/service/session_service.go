package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionService emite y resuelve credenciales de sesión. Un login exitoso
// produce un token firmado con ventana fija de validez; la identidad se
// resuelve una sola vez por request y se propaga como username plano.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	users  *UserService
	store  SessionStore
}

// Session es la credencial que el caller presenta en llamadas autorizadas.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionClaims struct {
	Username  string `json:"username"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrSessionInvalid = errors.New("session invalid")
	ErrSessionExpired = errors.New("session expired")
)

func NewSessionService(secret string, ttl time.Duration, users *UserService, store SessionStore) *SessionService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "bookshelf",
		users:  users,
		store:  store,
	}
}

// Login verifica credenciales y emite una sesión nueva.
func (s *SessionService) Login(ctx context.Context, username, password string) (Session, error) {
	if len(s.secret) == 0 || s.users == nil {
		return Session{}, errors.New("session service not configured")
	}
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()
	claims := SessionClaims{
		Username:  user.Username,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.Store(jti, user.Username, s.ttl); err != nil {
		return Session{}, err
	}

	return Session{
		Token:     signed,
		Username:  user.Username,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve devuelve el username dueño del token presentado. Falla si el
// token falta, está mal formado, expiró o fue revocado.
func (s *SessionService) Resolve(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	if claims.TokenType != "access" || !s.isValidClaims(claims) {
		return "", ErrSessionInvalid
	}
	if claims.ID == "" || s.store == nil {
		return "", ErrSessionInvalid
	}
	ok, err := s.store.Exists(claims.ID)
	if err != nil || !ok {
		return "", ErrSessionInvalid
	}
	return claims.Username, nil
}

// Revoke descarta la sesión asociada al token (logout).
func (s *SessionService) Revoke(token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}
	if !s.isValidClaims(claims) || claims.ID == "" || s.store == nil {
		return ErrSessionInvalid
	}
	return s.store.Revoke(claims.ID)
}

func (s *SessionService) parseToken(tokenString string) (SessionClaims, error) {
	if len(s.secret) == 0 {
		return SessionClaims{}, ErrSessionInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return SessionClaims{}, ErrSessionInvalid
	}
	var claims SessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrSessionExpired
		}
		return SessionClaims{}, ErrSessionInvalid
	}
	return claims, nil
}

func (s *SessionService) isValidClaims(claims SessionClaims) bool {
	if strings.TrimSpace(claims.Username) == "" {
		return false
	}
	if claims.Subject != claims.Username {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
