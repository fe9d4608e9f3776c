package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the stored settings overlaid on the defaults, so every
// known event always appears exactly once.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Setting, error) {
	const q = `
SELECT user_id, event, enabled, channel, updated_at
FROM notification_settings
WHERE user_id = $1
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stored := map[EventKey]Setting{}
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.UserID, &s.Event, &s.Enabled, &s.Channel, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stored[s.Event] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := Defaults(userID)
	for i, s := range out {
		if st, ok := stored[s.Event]; ok {
			out[i] = st
		}
	}
	return out, nil
}

func (r *Repository) Upsert(ctx context.Context, userID int64, event EventKey, enabled bool, channel Channel) (*Setting, error) {
	const q = `
INSERT INTO notification_settings (user_id, event, enabled, channel)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, event) DO UPDATE SET
  enabled = EXCLUDED.enabled,
  channel = EXCLUDED.channel,
  updated_at = NOW()
RETURNING user_id, event, enabled, channel, updated_at
`
	var s Setting
	if err := r.db.QueryRow(ctx, q, userID, event, enabled, channel).Scan(
		&s.UserID, &s.Event, &s.Enabled, &s.Channel, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
