package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	orderIDPrefix       = "SIRQ-2025-"
	orderIDSuffixLength = 5
)

var base36Max = big.NewInt(36)

// GenerateOrderID produces a human-shareable order identifier: the fixed
// prefix, a base-36 millisecond timestamp, and a short random suffix,
// upper-cased. Collisions are practically impossible at the expected order
// volume; the identifier is read by a human in a chat message, not used as a
// database key.
func GenerateOrderID() string {
	return generateOrderIDAt(time.Now())
}

func generateOrderIDAt(now time.Time) string {
	timestamp := strconv.FormatInt(now.UnixMilli(), 36)

	var suffix strings.Builder
	for i := 0; i < orderIDSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, base36Max)
		if err != nil {
			// crypto/rand failure leaves the timestamp component intact,
			// which is still unique enough for chat hand-off.
			suffix.WriteByte('0')
			continue
		}
		suffix.WriteString(strconv.FormatInt(n.Int64(), 36))
	}

	return strings.ToUpper(orderIDPrefix + timestamp + suffix.String())
}

// WizardState names a step of the order wizard.
type WizardState string

const (
	StateProductSelection WizardState = "product-selection"
	StateDetailsEntry     WizardState = "details-entry"
	StatePricingEntry     WizardState = "pricing-entry"
	StatePreview          WizardState = "preview"
	StateSubmitted        WizardState = "submitted"
)

// wizardOrder fixes the linear progression of the wizard.
var wizardOrder = []WizardState{
	StateProductSelection,
	StateDetailsEntry,
	StatePricingEntry,
	StatePreview,
	StateSubmitted,
}

func wizardIndex(state WizardState) int {
	for i, s := range wizardOrder {
		if s == state {
			return i
		}
	}
	return -1
}

// CanTransition reports whether the wizard may move from one state to
// another: one step forward, or back to any earlier state. Submitted is
// terminal.
func CanTransition(from, to WizardState) bool {
	fromIdx := wizardIndex(from)
	toIdx := wizardIndex(to)
	if fromIdx < 0 || toIdx < 0 {
		return false
	}
	if from == StateSubmitted {
		return false
	}
	if toIdx < fromIdx {
		return true
	}
	return toIdx == fromIdx+1
}

// NextState returns the state following the given one, or an error when the
// state is terminal or unknown.
func NextState(state WizardState) (WizardState, error) {
	idx := wizardIndex(state)
	if idx < 0 {
		return "", fmt.Errorf("wizard: unknown state %q", state)
	}
	if idx == len(wizardOrder)-1 {
		return "", fmt.Errorf("wizard: %q is terminal", state)
	}
	return wizardOrder[idx+1], nil
}
