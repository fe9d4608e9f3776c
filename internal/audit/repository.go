package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Record struct {
	ID         int64           `json:"id"`
	Actor      string          `json:"actor"`
	EntityType string          `json:"entityType"`
	EntityID   int64           `json:"entityId"`
	Action     string          `json:"action"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert writes an audit row inside the caller's transaction so the trail
// commits or rolls back with the mutation it describes.
func Insert(ctx context.Context, tx pgx.Tx, actor, entityType string, entityID int64, action string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (actor, entity_type, entity_id, action, metadata)
VALUES ($1, $2, $3, $4, CAST($5 AS jsonb))
`
	_, err := tx.Exec(ctx, q, actor, entityType, entityID, action, s)
	return err
}

func (r *Repository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Record, error) {
	const q = `
SELECT id, actor, entity_type, entity_id, action, metadata, created_at
FROM audit_logs
WHERE entity_type = $1 AND entity_id = $2
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Actor, &rec.EntityType, &rec.EntityID, &rec.Action, &rec.Metadata, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
