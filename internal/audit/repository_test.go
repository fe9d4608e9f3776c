package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubTx satisfies pgx.Tx for the single Exec call Insert makes.
type stubTx struct {
	pgx.Tx
	execErr error
	gotSQL  string
	gotArgs []any
}

func (s *stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.gotSQL = sql
	s.gotArgs = args
	return pgconn.CommandTag{}, s.execErr
}

func TestInsertPropagatesExecError(t *testing.T) {
	want := errors.New("insert failed")
	tx := &stubTx{execErr: want}

	err := Insert(context.Background(), tx, "ops@example.com", "vehicle", 1, "STATUS_CHANGED", map[string]any{"to": "rented"})
	if !errors.Is(err, want) {
		t.Fatalf("expected the exec error to surface, got %v", err)
	}
}

func TestInsertNilMetadata(t *testing.T) {
	tx := &stubTx{}

	if err := Insert(context.Background(), tx, "ops@example.com", "vehicle", 1, "STATUS_CHANGED", nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(tx.gotArgs) != 5 {
		t.Fatalf("expected 5 args, got %d", len(tx.gotArgs))
	}
	if tx.gotArgs[4] != (*string)(nil) {
		t.Fatalf("nil metadata should bind a NULL jsonb, got %#v", tx.gotArgs[4])
	}
}
