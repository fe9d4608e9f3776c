package user

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentalmanager/internal/api"
)

const columns = `id, email, full_name, role, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// FindActorByEmail satisfies api.ActorLookup for the identity middleware.
func (r *Repository) FindActorByEmail(ctx context.Context, email string) (*api.Actor, error) {
	const q = `SELECT id, email, full_name, role FROM users WHERE email = $1`
	var a api.Actor
	if err := r.db.QueryRow(ctx, q, email).Scan(&a.ID, &a.Email, &a.Name, &a.Role); err != nil {
		return nil, err
	}
	return &a, nil
}

type row interface {
	Scan(dest ...any) error
}

func scanUser(r row) (User, error) {
	var u User
	err := r.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + columns + ` FROM users ORDER BY email ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT ` + columns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, email, fullName, role, passwordHash, passwordSalt string) (*User, error) {
	const q = `
INSERT INTO users (email, full_name, role, password_hash, password_salt)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns
	u, err := scanUser(r.db.QueryRow(ctx, q, email, fullName, role, passwordHash, passwordSalt))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdateRole(ctx context.Context, id int64, role string) (*User, error) {
	const q = `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + columns
	u, err := scanUser(r.db.QueryRow(ctx, q, role, id))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
