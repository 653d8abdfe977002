package domain

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestGenerateOrderID_Shape(t *testing.T) {
	id := GenerateOrderID()
	if !strings.HasPrefix(id, "SIRQ-2025-") {
		t.Fatalf("expected SIRQ-2025- prefix, got %q", id)
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("expected upper-cased id, got %q", id)
	}
	if len(id) <= len("SIRQ-2025-")+orderIDSuffixLength {
		t.Fatalf("id missing timestamp component: %q", id)
	}
}

func TestGenerateOrderID_TimestampComponent(t *testing.T) {
	at := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	id := generateOrderIDAt(at)

	want := strings.ToUpper("SIRQ-2025-" + strconv.FormatInt(at.UnixMilli(), 36))
	if !strings.HasPrefix(id, want) {
		t.Fatalf("expected prefix %q, got %q", want, id)
	}
}

func TestGenerateOrderID_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id := GenerateOrderID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate order id generated: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to WizardState
		want     bool
	}{
		{StateProductSelection, StateDetailsEntry, true},
		{StateDetailsEntry, StatePricingEntry, true},
		{StatePricingEntry, StatePreview, true},
		{StatePreview, StateSubmitted, true},
		{StateProductSelection, StatePricingEntry, false},
		{StatePreview, StateProductSelection, true},
		{StatePreview, StateDetailsEntry, true},
		{StateSubmitted, StatePreview, false},
		{StateSubmitted, StateProductSelection, false},
		{StateDetailsEntry, StateDetailsEntry, false},
		{WizardState("bogus"), StatePreview, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestNextState(t *testing.T) {
	next, err := NextState(StatePreview)
	if err != nil {
		t.Fatalf("NextState error: %v", err)
	}
	if next != StateSubmitted {
		t.Fatalf("expected submitted, got %s", next)
	}

	if _, err := NextState(StateSubmitted); err == nil {
		t.Fatal("expected error for terminal state")
	}
	if _, err := NextState(WizardState("bogus")); err == nil {
		t.Fatal("expected error for unknown state")
	}
}
