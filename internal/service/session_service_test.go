package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"peak-tracker/internal/domain"
	"peak-tracker/internal/repository"
)

type mockUserRepo struct {
	seq        int64
	usersByID  map[int64]domain.User
	byEmail    map[string]int64
	byFacebook map[string]int64
	lookups    int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:  make(map[int64]domain.User),
		byEmail:    make(map[string]int64),
		byFacebook: make(map[string]int64),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return domain.User{}, repository.ErrDuplicateEmail
	}
	if user.FacebookID != "" {
		if _, ok := m.byFacebook[user.FacebookID]; ok {
			return domain.User{}, repository.ErrDuplicateFacebookID
		}
	}
	m.seq++
	user.ID = m.seq
	m.usersByID[user.ID] = user
	m.byEmail[user.Email] = user.ID
	if user.FacebookID != "" {
		m.byFacebook[user.FacebookID] = user.ID
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.lookups++
	id, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) GetByFacebookID(_ context.Context, facebookID string) (domain.User, error) {
	m.lookups++
	id, ok := m.byFacebook[facebookID]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) LinkFacebookID(_ context.Context, userID int64, facebookID string) error {
	if _, ok := m.byFacebook[facebookID]; ok {
		return repository.ErrDuplicateFacebookID
	}
	user, ok := m.usersByID[userID]
	if !ok || user.FacebookID != "" {
		return repository.ErrDuplicateFacebookID
	}
	user.FacebookID = facebookID
	m.usersByID[userID] = user
	m.byFacebook[facebookID] = userID
	return nil
}

func newTestSessionService(repo *mockUserRepo) *SessionService {
	tokens := NewTokenService("secret", time.Hour)
	hasher := NewBcryptHasher(bcrypt.MinCost)
	return NewSessionService(zap.NewNop(), repo, hasher, tokens)
}

func TestSessionService_SignUpThenLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestSessionService(repo)
	ctx := context.Background()

	creds := domain.SignupCredentials{Email: "jane@test.com", Password: "fakePassword1"}
	user, err := svc.SignUp(ctx, creds)
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.UUID == "" {
		t.Fatalf("expected uuid to be assigned")
	}
	if user.PasswordHash == creds.Password {
		t.Fatalf("password stored in plaintext")
	}

	token, err := svc.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.User.Email != creds.Email || claims.User.UUID != user.UUID {
		t.Fatalf("unexpected token user: %+v", claims.User)
	}
}

func TestSessionService_SignUpDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestSessionService(repo)
	ctx := context.Background()

	creds := domain.SignupCredentials{Email: "jane@test.com", Password: "fakePassword1"}
	if _, err := svc.SignUp(ctx, creds); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, err := svc.SignUp(ctx, creds); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.usersByID) != 1 {
		t.Fatalf("expected exactly one user record, got %d", len(repo.usersByID))
	}
}

func TestSessionService_LoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestSessionService(repo)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, domain.SignupCredentials{Email: "amanda@test.com", Password: "Password123"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	// Cuenta creada via Facebook, sin password local.
	if _, err := repo.Create(ctx, domain.User{
		UUID:       "fb-uuid",
		Email:      "fbonly@test.com",
		FacebookID: "123",
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create facebook-only user: %v", err)
	}

	_, unknownErr := svc.Login(ctx, "wrong@test.com", "Password123")
	_, wrongPWErr := svc.Login(ctx, "amanda@test.com", "wrongPassword")
	_, noPWErr := svc.Login(ctx, "fbonly@test.com", "Password123")

	for _, err := range []error{unknownErr, wrongPWErr, noPWErr} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
}

func TestSessionService_FacebookLoginExistingByFacebookID(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestSessionService(repo)
	ctx := context.Background()

	existing, err := repo.Create(ctx, domain.User{
		UUID:       "uuid-linked",
		Email:      "linked@test.com",
		FacebookID: "123",
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := svc.FacebookLogin(ctx, FacebookAssertion{
		AccessToken: "fb-token",
		Email:       existing.Email,
		UserID:      "123",
	})
	if err != nil {
		t.Fatalf("facebook login: %v", err)
	}
	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.User.UUID != existing.UUID {
		t.Fatalf("expected original uuid %q, got %q", existing.UUID, claims.User.UUID)
	}
}

func TestSessionService_FacebookLoginLinksLocalAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestSessionService(repo)
	ctx := context.Background()

	local, err := svc.SignUp(ctx, domain.SignupCredentials{Email: "amanda@test.com", Password: "Password123"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	assertion := FacebookAssertion{AccessToken: "fb-token", Email: local.Email, UserID: "123"}
	token, err := svc.FacebookLogin(ctx, assertion)
	if err != nil {
		t.Fatalf("facebook login: %v", err)
	}
	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.User.UUID != local.UUID {
		t.Fatalf("expected local uuid preserved, got %q", claims.User.UUID)
	}
	if got := repo.usersByID[local.ID].FacebookID; got != "123" {
		t.Fatalf("expected facebook id linked, got %q", got)
	}

	// Un segundo login con la misma aserción es idempotente.
	token2, err := svc.FacebookLogin(ctx, assertion)
	if err != nil {
		t.Fatalf("second facebook login: %v", err)
	}
	claims2, err := NewTokenService("secret", time.Hour).Verify(token2)
	if err != nil {
		t.Fatalf("verify second token: %v", err)
	}
	if claims2.User.UUID != local.UUID {
		t.Fatalf("expected same uuid on second login, got %q", claims2.User.UUID)
	}
	if len(repo.usersByID) != 1 {
		t.Fatalf("expected no duplicate user, got %d records", len(repo.usersByID))
	}
}

func TestSessionService_FacebookLoginCreatesNewUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestSessionService(repo)
	ctx := context.Background()

	token, err := svc.FacebookLogin(ctx, FacebookAssertion{
		AccessToken: "fb-token",
		Email:       "janedoe@test.com",
		UserID:      "456",
	})
	if err != nil {
		t.Fatalf("facebook login: %v", err)
	}
	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.User.UUID == "" {
		t.Fatalf("expected fresh uuid for new user")
	}
	if len(repo.usersByID) != 1 {
		t.Fatalf("expected exactly one new user, got %d", len(repo.usersByID))
	}
	created := repo.usersByID[1]
	if created.HasPassword() {
		t.Fatalf("expected federated user without password hash")
	}
	if created.FacebookID != "456" {
		t.Fatalf("expected facebook id stored, got %q", created.FacebookID)
	}
}

func TestSessionService_FacebookLoginMissingAccessToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestSessionService(repo)
	ctx := context.Background()

	_, err := svc.FacebookLogin(ctx, FacebookAssertion{Email: "amanda@test.com", UserID: "123"})
	if !errors.Is(err, ErrFacebookLogin) {
		t.Fatalf("expected ErrFacebookLogin, got %v", err)
	}
	if repo.lookups != 0 {
		t.Fatalf("expected no store lookups, got %d", repo.lookups)
	}
	if len(repo.usersByID) != 0 {
		t.Fatalf("expected no user created")
	}
}
