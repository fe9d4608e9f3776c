package reservation

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `
id, vehicle_id, customer_id, start_date::text, end_date::text, status, type,
maintenance_status, cancellation_requested, COALESCE(notes,''), created_at, updated_at, deleted_at
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

func scanReservation(r row) (Reservation, error) {
	var res Reservation
	err := r.Scan(
		&res.ID, &res.VehicleID, &res.CustomerID, &res.StartDate, &res.EndDate,
		&res.Status, &res.Type, &res.MaintenanceStatus, &res.CancellationRequested,
		&res.Notes, &res.CreatedAt, &res.UpdatedAt, &res.DeletedAt,
	)
	return res, err
}

func collect(rows pgx.Rows) ([]Reservation, error) {
	defer rows.Close()
	var out []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	const q = `SELECT ` + columns + ` FROM reservations WHERE id = $1 AND deleted_at IS NULL`
	res, err := scanReservation(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) List(ctx context.Context) ([]Reservation, error) {
	const q = `SELECT ` + columns + ` FROM reservations WHERE deleted_at IS NULL ORDER BY start_date DESC, id DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListRange returns reservations overlapping [from, to], for the calendar.
func (r *Repository) ListRange(ctx context.Context, from, to string) ([]Reservation, error) {
	const q = `
SELECT ` + columns + `
FROM reservations
WHERE deleted_at IS NULL
  AND start_date <= $2::date
  AND (end_date IS NULL OR end_date >= $1::date)
ORDER BY start_date ASC, id ASC
`
	rows, err := r.db.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) ListByVehicle(ctx context.Context, vehicleID int64) ([]Reservation, error) {
	const q = `SELECT ` + columns + ` FROM reservations WHERE vehicle_id = $1 AND deleted_at IS NULL ORDER BY start_date DESC, id DESC`
	rows, err := r.db.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Reservation, error) {
	const q = `SELECT ` + columns + ` FROM reservations WHERE customer_id = $1 AND deleted_at IS NULL ORDER BY start_date DESC, id DESC`
	rows, err := r.db.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

type CreateParams struct {
	VehicleID         int64
	CustomerID        *int64
	StartDate         string
	EndDate           *string
	Type              Type
	MaintenanceStatus *MaintenanceStatus
	Notes             string
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (*Reservation, error) {
	const q = `
INSERT INTO reservations (vehicle_id, customer_id, start_date, end_date, status, type, maintenance_status, notes)
VALUES ($1, $2, $3::date, $4::date, 'booked', $5, $6, $7)
RETURNING ` + columns
	res, err := scanReservation(r.db.QueryRow(ctx, q,
		p.VehicleID, p.CustomerID, p.StartDate, p.EndDate, p.Type, p.MaintenanceStatus, p.Notes,
	))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type UpdateParams struct {
	StartDate string
	EndDate   *string
	Notes     string
}

func (r *Repository) Update(ctx context.Context, id int64, p UpdateParams) (*Reservation, error) {
	const q = `
UPDATE reservations
SET start_date = $1::date, end_date = $2::date, notes = $3, updated_at = NOW()
WHERE id = $4 AND deleted_at IS NULL
RETURNING ` + columns
	res, err := scanReservation(r.db.QueryRow(ctx, q, p.StartDate, p.EndDate, p.Notes, id))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Transactional helpers used by the vehicle lifecycle handlers. Status writes
// to reservations and the owning vehicle must share one transaction.

func GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*Reservation, error) {
	const q = `SELECT ` + columns + ` FROM reservations WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	res, err := scanReservation(tx.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func ListByVehicleTx(ctx context.Context, tx pgx.Tx, vehicleID int64) ([]Reservation, error) {
	const q = `SELECT ` + columns + ` FROM reservations WHERE vehicle_id = $1 AND deleted_at IS NULL`
	rows, err := tx.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status Status) error {
	const q = `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.Exec(ctx, q, status, id)
	return err
}

func SetMaintenanceStatusTx(ctx context.Context, tx pgx.Tx, id int64, ms MaintenanceStatus) error {
	const q = `UPDATE reservations SET maintenance_status = $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.Exec(ctx, q, ms, id)
	return err
}

// CreateMaintenanceBlockTx opens an ad-hoc maintenance block starting today,
// already in progress.
func CreateMaintenanceBlockTx(ctx context.Context, tx pgx.Tx, vehicleID int64, today, notes string) (*Reservation, error) {
	const q = `
INSERT INTO reservations (vehicle_id, start_date, status, type, maintenance_status, notes)
VALUES ($1, $2::date, 'booked', 'maintenance_block', 'in', $3)
RETURNING ` + columns
	res, err := scanReservation(tx.QueryRow(ctx, q, vehicleID, today, notes))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CloseMaintenanceTx finishes every in-progress maintenance block on the
// vehicle: marks it done and caps an open-ended window at today.
func CloseMaintenanceTx(ctx context.Context, tx pgx.Tx, vehicleID int64, today string) (int64, error) {
	const q = `
UPDATE reservations
SET maintenance_status = 'done', status = 'completed',
    end_date = LEAST(COALESCE(end_date, $2::date), $2::date), updated_at = NOW()
WHERE vehicle_id = $1
  AND deleted_at IS NULL
  AND type = 'maintenance_block'
  AND maintenance_status IN ('in', 'in_service')
`
	ct, err := tx.Exec(ctx, q, vehicleID, today)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func SoftDeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	const q = `UPDATE reservations SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	ct, err := tx.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func RequestCancellationTx(ctx context.Context, tx pgx.Tx, id int64) error {
	const q = `UPDATE reservations SET cancellation_requested = TRUE, updated_at = NOW() WHERE id = $1 AND status = 'booked'`
	ct, err := tx.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
