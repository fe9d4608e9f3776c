package customer

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `
id, full_name, email, COALESCE(phone,''), COALESCE(address,''), COALESCE(driver_license,''), COALESCE(notes,''), created_at, updated_at
`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type row interface {
	Scan(dest ...any) error
}

func scanCustomer(r row) (Customer, error) {
	var c Customer
	err := r.Scan(
		&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address,
		&c.DriverLicense, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// List returns customers, optionally narrowed by a name/email search term.
func (r *Repository) List(ctx context.Context, search string) ([]Customer, error) {
	const qAll = `SELECT ` + columns + ` FROM customers ORDER BY full_name ASC`
	const qSearch = `
SELECT ` + columns + `
FROM customers
WHERE full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
ORDER BY full_name ASC
`
	var (
		rows pgx.Rows
		err  error
	)
	if search == "" {
		rows, err = r.db.Query(ctx, qAll)
	} else {
		rows, err = r.db.Query(ctx, qSearch, search)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	const q = `SELECT ` + columns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type UpsertParams struct {
	FullName      string
	Email         string
	Phone         string
	Address       string
	DriverLicense string
	Notes         string
}

func (r *Repository) Create(ctx context.Context, p UpsertParams) (*Customer, error) {
	const q = `
INSERT INTO customers (full_name, email, phone, address, driver_license, notes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns
	c, err := scanCustomer(r.db.QueryRow(ctx, q, p.FullName, p.Email, p.Phone, p.Address, p.DriverLicense, p.Notes))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Update(ctx context.Context, id int64, p UpsertParams) (*Customer, error) {
	const q = `
UPDATE customers
SET full_name = $1, email = $2, phone = $3, address = $4, driver_license = $5, notes = $6, updated_at = NOW()
WHERE id = $7
RETURNING ` + columns
	c, err := scanCustomer(r.db.QueryRow(ctx, q, p.FullName, p.Email, p.Phone, p.Address, p.DriverLicense, p.Notes, id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM customers WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
