package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"peak-tracker/internal/domain"
	"peak-tracker/internal/repository"
)

// SessionService orquesta los cuatro casos de uso de autenticación: registro,
// login local, refresh y login via Facebook. No mantiene estado entre requests.
type SessionService struct {
	logger *zap.Logger
	users  repository.UserRepository
	hasher PasswordHasher
	tokens *TokenService
}

func NewSessionService(logger *zap.Logger, users repository.UserRepository, hasher PasswordHasher, tokens *TokenService) *SessionService {
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &SessionService{
		logger: logger,
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// FacebookAssertion es la tupla que entrega el cliente tras autenticarse con
// Facebook. Se confía en ella tal cual llega; no se verifica contra Facebook.
type FacebookAssertion struct {
	AccessToken string
	Email       string
	UserID      string
}

var (
	ErrEmailTaken         = errors.New("email taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFacebookLogin      = errors.New("facebook login failed")
)

// SignUp crea una cuenta local. Asume credenciales ya validadas en el borde.
// El password nunca se persiste ni se registra en claro.
func (s *SessionService) SignUp(ctx context.Context, creds domain.SignupCredentials) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("session service not configured")
	}

	passwordHash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		UUID:         uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return created, nil
}

// Login autentica credenciales locales y emite un token de sesión. Email
// desconocido, cuenta sin password y password incorrecto fallan identico,
// sin señal de cual condición se dio.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, error) {
	if s.users == nil {
		return "", errors.New("session service not configured")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.HasPassword() {
		return "", ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(TokenUser{Email: user.Email, UUID: user.UUID})
}

// Refresh reemite el token de sesión entrante.
func (s *SessionService) Refresh(tokenString string) (string, error) {
	return s.tokens.Refresh(tokenString)
}

// FacebookLogin resuelve la aserción federada a un usuario local y emite un
// token para el. Fallos de resolución surfean como ErrFacebookLogin.
func (s *SessionService) FacebookLogin(ctx context.Context, assertion FacebookAssertion) (string, error) {
	user, err := s.resolveFacebookUser(ctx, assertion)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(TokenUser{Email: user.Email, UUID: user.UUID})
}

// resolveFacebookUser busca, enlaza o crea la cuenta local para una identidad
// de Facebook:
//  1. sin access token no se consulta el almacenamiento;
//  2. match por facebook id usa la cuenta tal cual;
//  3. match por email sin facebook id enlaza la identidad a la cuenta local;
//  4. si no, crea una cuenta nueva sin password.
func (s *SessionService) resolveFacebookUser(ctx context.Context, assertion FacebookAssertion) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("session service not configured")
	}
	if assertion.AccessToken == "" || assertion.UserID == "" {
		return domain.User{}, ErrFacebookLogin
	}

	user, err := s.users.GetByFacebookID(ctx, assertion.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	if assertion.Email != "" {
		existing, err := s.users.GetByEmail(ctx, assertion.Email)
		if err == nil {
			if existing.FacebookID != "" {
				// Email ocupado por una cuenta enlazada a otra identidad.
				return domain.User{}, ErrFacebookLogin
			}
			if err := s.users.LinkFacebookID(ctx, existing.ID, assertion.UserID); err != nil {
				if errors.Is(err, repository.ErrDuplicateFacebookID) {
					return domain.User{}, ErrFacebookLogin
				}
				return domain.User{}, err
			}
			existing.FacebookID = assertion.UserID
			return existing, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
	}

	user = domain.User{
		UUID:       uuid.NewString(),
		Email:      assertion.Email,
		FacebookID: assertion.UserID,
		CreatedAt:  time.Now().UTC(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateFacebookID) {
			return domain.User{}, ErrFacebookLogin
		}
		return domain.User{}, err
	}
	return created, nil
}
