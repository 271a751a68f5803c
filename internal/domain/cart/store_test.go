package cart

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLinesEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lines := []Line{
		{ID: "a", ProductID: 7, Quantity: 2, CreatedAt: now, UpdatedAt: now},
		{ID: "b", ProductID: 9, Quantity: 1, CreatedAt: now, UpdatedAt: now.Add(time.Minute)},
	}

	payload, err := encodeLines(lines)
	if err != nil {
		t.Fatalf("encodeLines: %v", err)
	}
	decoded, err := decodeLines(payload)
	if err != nil {
		t.Fatalf("decodeLines: %v", err)
	}
	if diff := cmp.Diff(lines, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLinesRejectsCorruptPayload(t *testing.T) {
	for _, payload := range []string{"{not json", `{"id":"a"}`, ""} {
		if _, err := decodeLines([]byte(payload)); err == nil {
			t.Errorf("decodeLines(%q) should fail", payload)
		}
	}
}

func TestEncodeNilLinesYieldsEmptyArray(t *testing.T) {
	payload, err := encodeLines(nil)
	if err != nil {
		t.Fatalf("encodeLines(nil): %v", err)
	}
	if string(payload) != "[]" {
		t.Errorf("payload = %s, want []", payload)
	}
}

func TestCartKeyIsScopedPerCustomer(t *testing.T) {
	if cartKey(1) == cartKey(2) {
		t.Error("cart keys must differ per customer")
	}
	if got, want := cartKey(42), "cart:customer:42"; got != want {
		t.Errorf("cartKey(42) = %q, want %q", got, want)
	}
}
