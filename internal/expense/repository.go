package expense

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const columns = `id, vehicle_id, category, amount::text, incurred_on::text, COALESCE(note,''), created_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type row interface {
	Scan(dest ...any) error
}

func scanExpense(r row) (Expense, error) {
	var e Expense
	var amount string
	if err := r.Scan(&e.ID, &e.VehicleID, &e.Category, &amount, &e.IncurredOn, &e.Note, &e.CreatedAt); err != nil {
		return Expense{}, err
	}
	var err error
	e.Amount, err = decimal.NewFromString(amount)
	return e, err
}

func collect(rows pgx.Rows) ([]Expense, error) {
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context) ([]Expense, error) {
	const q = `SELECT ` + columns + ` FROM expenses ORDER BY incurred_on DESC, id DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) ListByVehicle(ctx context.Context, vehicleID int64) ([]Expense, error) {
	const q = `SELECT ` + columns + ` FROM expenses WHERE vehicle_id = $1 ORDER BY incurred_on DESC, id DESC`
	rows, err := r.db.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

type CreateParams struct {
	VehicleID  int64
	Category   Category
	Amount     decimal.Decimal
	IncurredOn string
	Note       string
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (*Expense, error) {
	const q = `
INSERT INTO expenses (vehicle_id, category, amount, incurred_on, note)
VALUES ($1, $2, $3::numeric, $4::date, $5)
RETURNING ` + columns
	e, err := scanExpense(r.db.QueryRow(ctx, q, p.VehicleID, p.Category, p.Amount.String(), p.IncurredOn, p.Note))
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM expenses WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
