package document

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `
id, customer_id, vehicle_id, reservation_id, kind, title, COALESCE(contract_number,''), COALESCE(file_url,''), created_at
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

func scanDocument(r row) (Document, error) {
	var d Document
	err := r.Scan(
		&d.ID, &d.CustomerID, &d.VehicleID, &d.ReservationID,
		&d.Kind, &d.Title, &d.ContractNumber, &d.FileURL, &d.CreatedAt,
	)
	return d, err
}

func collect(rows pgx.Rows) ([]Document, error) {
	defer rows.Close()
	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context) ([]Document, error) {
	const q = `SELECT ` + columns + ` FROM documents ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Document, error) {
	const q = `SELECT ` + columns + ` FROM documents WHERE customer_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) ListByVehicle(ctx context.Context, vehicleID int64) ([]Document, error) {
	const q = `SELECT ` + columns + ` FROM documents WHERE vehicle_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

type CreateParams struct {
	CustomerID     *int64
	VehicleID      *int64
	ReservationID  *int64
	Kind           Kind
	Title          string
	ContractNumber string
	FileURL        string
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (*Document, error) {
	const q = `
INSERT INTO documents (customer_id, vehicle_id, reservation_id, kind, title, contract_number, file_url)
VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), NULLIF($7,''))
RETURNING ` + columns
	d, err := scanDocument(r.db.QueryRow(ctx, q,
		p.CustomerID, p.VehicleID, p.ReservationID, p.Kind, p.Title, p.ContractNumber, p.FileURL,
	))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
