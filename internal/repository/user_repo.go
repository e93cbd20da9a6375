package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"peak-tracker/internal/domain"
)

// Errores de unicidad devueltos por el almacenamiento. La verificacion es
// atomica con la escritura: la respalda un indice unico, no un existence check.
var (
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateFacebookID = errors.New("facebook id already exists")
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByFacebookID(ctx context.Context, facebookID string) (domain.User, error)
	LinkFacebookID(ctx context.Context, userID int64, facebookID string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (uuid, email, password_hash, facebook_id, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		user.UUID,
		user.Email,
		user.PasswordHash,
		user.FacebookID,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return domain.User{}, mapUniqueViolation(err)
	}
	return user, nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, uuid, email, COALESCE(password_hash, ''), COALESCE(facebook_id, ''), created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) GetByFacebookID(ctx context.Context, facebookID string) (domain.User, error) {
	const query = `
		SELECT id, uuid, email, COALESCE(password_hash, ''), COALESCE(facebook_id, ''), created_at
		FROM users
		WHERE facebook_id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, facebookID))
}

// LinkFacebookID asocia un facebook id a una cuenta que aun no tiene uno.
// El guard sobre facebook_id IS NULL evita doble enlace bajo concurrencia.
func (r *PgUserRepository) LinkFacebookID(ctx context.Context, userID int64, facebookID string) error {
	const query = `
		UPDATE users
		SET facebook_id = $1
		WHERE id = $2 AND facebook_id IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, facebookID, userID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateFacebookID
	}
	return nil
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.UUID,
		&u.Email,
		&u.PasswordHash,
		&u.FacebookID,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	if strings.Contains(pgErr.ConstraintName, "facebook") {
		return ErrDuplicateFacebookID
	}
	return ErrDuplicateEmail
}
