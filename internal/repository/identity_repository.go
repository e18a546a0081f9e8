package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zengest/platform/internal/domain"
)

// ErrDuplicateEmail reports a unique-index violation on the email key.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrBindingConflict reports a conditional rotation that lost the race: the
// stored refresh binding no longer matches the expected previous value.
var ErrBindingConflict = errors.New("refresh binding changed concurrently")

// IdentityRepository defines persistence access for identities. The store is
// the single synchronization point between concurrent requests; every
// binding update is one atomic write.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// SetRefreshBinding overwrites the binding unconditionally. A nil hash
	// revokes the session.
	SetRefreshBinding(ctx context.Context, id string, hash *string) error
	// RotateRefreshBinding replaces the binding only if the stored value
	// still equals prevHash. Returns ErrBindingConflict when a concurrent
	// rotation got there first.
	RotateRefreshBinding(ctx context.Context, id, prevHash, newHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, role *domain.Role, active *bool) ([]*domain.Identity, error)
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

const identityColumns = `id, first_name, last_name, email, secret_hash, role, phone, active, refresh_binding_hash, created_at, updated_at`

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var identity domain.Identity
	if err := row.Scan(
		&identity.ID,
		&identity.FirstName,
		&identity.LastName,
		&identity.Email,
		&identity.SecretHash,
		&identity.Role,
		&identity.Phone,
		&identity.Active,
		&identity.RefreshBindingHash,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (first_name, last_name, email, secret_hash, role, phone, active, refresh_binding_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		identity.FirstName,
		identity.LastName,
		domain.NormalizeEmail(identity.Email),
		identity.SecretHash,
		identity.Role,
		identity.Phone,
		identity.Active,
		identity.RefreshBindingHash,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `SELECT ` + identityColumns + ` FROM identities WHERE id=$1`
	return scanIdentity(r.pool.QueryRow(ctx, query, id))
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const query = `SELECT ` + identityColumns + ` FROM identities WHERE email=$1`
	return scanIdentity(r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email)))
}

func (r *identityRepository) SetRefreshBinding(ctx context.Context, id string, hash *string) error {
	const query = `UPDATE identities SET refresh_binding_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) RotateRefreshBinding(ctx context.Context, id, prevHash, newHash string) error {
	const query = `
        UPDATE identities SET refresh_binding_hash=$1, updated_at=NOW()
        WHERE id=$2 AND refresh_binding_hash=$3`

	cmd, err := r.pool.Exec(ctx, query, newHash, id, prevHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBindingConflict
	}
	return nil
}

func (r *identityRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE identities SET active=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) List(ctx context.Context, role *domain.Role, active *bool) ([]*domain.Identity, error) {
	const query = `
        SELECT ` + identityColumns + ` FROM identities
        WHERE ($1::text IS NULL OR role = $1)
          AND ($2::boolean IS NULL OR active = $2)
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, role, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []*domain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, rows.Err()
}
