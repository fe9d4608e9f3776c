package document

import (
	"strings"
	"testing"
	"time"
)

func TestNewContractNumber(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	n := NewContractNumber(now)
	if !strings.HasPrefix(n, "CNT-2026-") {
		t.Fatalf("unexpected prefix: %s", n)
	}
	if len(n) != len("CNT-2026-")+8 {
		t.Fatalf("unexpected length: %s", n)
	}

	if NewContractNumber(now) == n {
		t.Fatalf("contract numbers must not repeat")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindContract, KindInsurance, KindIDScan, KindInvoice, KindOther} {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Fatalf("ParseKind(%s): %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("receipt"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
