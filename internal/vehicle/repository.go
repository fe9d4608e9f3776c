package vehicle

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const columns = `
id, license_plate, brand, model, year, mileage, daily_rate::text, status, COALESCE(notes,''), created_at, updated_at
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

func scanVehicle(r row) (Vehicle, error) {
	var v Vehicle
	var rate string
	if err := r.Scan(
		&v.ID, &v.LicensePlate, &v.Brand, &v.Model, &v.Year, &v.Mileage,
		&rate, &v.Status, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return Vehicle{}, err
	}
	var err error
	v.DailyRate, err = decimal.NewFromString(rate)
	return v, err
}

func (r *Repository) List(ctx context.Context) ([]Vehicle, error) {
	const q = `SELECT ` + columns + ` FROM vehicles ORDER BY license_plate ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Vehicle, error) {
	const q = `SELECT ` + columns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type CreateParams struct {
	LicensePlate string
	Brand        string
	Model        string
	Year         int
	Mileage      int
	DailyRate    decimal.Decimal
	Notes        string
}

// Create inserts a vehicle; new vehicles start available by convention.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*Vehicle, error) {
	const q = `
INSERT INTO vehicles (license_plate, brand, model, year, mileage, daily_rate, status, notes)
VALUES ($1, $2, $3, $4, $5, $6::numeric, 'available', $7)
RETURNING ` + columns
	v, err := scanVehicle(r.db.QueryRow(ctx, q,
		p.LicensePlate, p.Brand, p.Model, p.Year, p.Mileage, p.DailyRate.String(), p.Notes,
	))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type UpdateParams struct {
	LicensePlate string
	Brand        string
	Model        string
	Year         int
	Mileage      int
	DailyRate    decimal.Decimal
	Notes        string
}

// Update writes the descriptive fields. Status is deliberately excluded: it
// only moves through the validated transition endpoints.
func (r *Repository) Update(ctx context.Context, id int64, p UpdateParams) (*Vehicle, error) {
	const q = `
UPDATE vehicles
SET license_plate = $1, brand = $2, model = $3, year = $4, mileage = $5,
    daily_rate = $6::numeric, notes = $7, updated_at = NOW()
WHERE id = $8
RETURNING ` + columns
	v, err := scanVehicle(r.db.QueryRow(ctx, q,
		p.LicensePlate, p.Brand, p.Model, p.Year, p.Mileage, p.DailyRate.String(), p.Notes, id,
	))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM vehicles WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*Vehicle, error) {
	const q = `SELECT ` + columns + ` FROM vehicles WHERE id = $1 FOR UPDATE`
	v, err := scanVehicle(tx.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, next Status) error {
	const q = `UPDATE vehicles SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.Exec(ctx, q, string(next), id)
	return err
}
