package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind tags a ledger event.
type EntryKind string

const (
	EntryKindCharge     EntryKind = "charge"
	EntryKindSettlement EntryKind = "settlement"
	EntryKindAdjustment EntryKind = "adjustment"
)

// AdjustmentDirection says whether a manual adjustment raises or lowers a balance.
type AdjustmentDirection string

const (
	DirectionDebit  AdjustmentDirection = "debit"
	DirectionCredit AdjustmentDirection = "credit"
)

// Valid reports whether d is a known direction.
func (d AdjustmentDirection) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// LedgerEvent is a charge, a settlement or an adjustment against one account.
// Amount is always positive; the sign comes from Kind and Direction.
type LedgerEvent struct {
	Kind      EntryKind
	Date      time.Time
	Amount    decimal.Decimal
	Direction AdjustmentDirection
	Label     string
	SourceID  string
}

// NewCharge builds an event that increases the balance.
func NewCharge(date time.Time, amount decimal.Decimal, label, sourceID string) LedgerEvent {
	return LedgerEvent{Kind: EntryKindCharge, Date: date, Amount: amount, Label: label, SourceID: sourceID}
}

// NewSettlement builds an event that decreases the balance.
func NewSettlement(date time.Time, amount decimal.Decimal, label, sourceID string) LedgerEvent {
	return LedgerEvent{Kind: EntryKindSettlement, Date: date, Amount: amount, Label: label, SourceID: sourceID}
}

// NewAdjustment builds a manual debit or credit.
func NewAdjustment(date time.Time, amount decimal.Decimal, dir AdjustmentDirection, label, sourceID string) LedgerEvent {
	return LedgerEvent{Kind: EntryKindAdjustment, Date: date, Amount: amount, Direction: dir, Label: label, SourceID: sourceID}
}

// Delta returns the signed contribution of the event to the balance.
func (e LedgerEvent) Delta() decimal.Decimal {
	switch e.Kind {
	case EntryKindSettlement:
		return e.Amount.Neg()
	case EntryKindAdjustment:
		if e.Direction == DirectionCredit {
			return e.Amount.Neg()
		}
		return e.Amount
	default:
		return e.Amount
	}
}

// HistoryEntry is an event annotated with the balance right after it happened.
type HistoryEntry struct {
	LedgerEvent
	Delta   decimal.Decimal
	Balance decimal.Decimal
}

// Statement is an account balance with its newest-first history.
type Statement struct {
	Balance decimal.Decimal
	Entries []HistoryEntry
}

// IsEmpty reports the "no movements" state.
func (s Statement) IsEmpty() bool {
	return len(s.Entries) == 0
}

// ComputeBalance returns charges - settlements + debits - credits.
// Suppliers pass nil adjustments.
func ComputeBalance(charges, settlements, adjustments []LedgerEvent) decimal.Decimal {
	balance := decimal.Zero

	for _, c := range charges {
		balance = balance.Add(c.Amount)
	}

	for _, s := range settlements {
		balance = balance.Sub(s.Amount)
	}

	for _, a := range adjustments {
		if a.Direction == DirectionCredit {
			balance = balance.Sub(a.Amount)
		} else {
			balance = balance.Add(a.Amount)
		}
	}

	return balance
}

// BuildHistory merges the three lists newest first and annotates every row
// with the running balance as of that row, inclusive.
//
// Rows with equal dates keep insertion order: charges, then settlements, then
// adjustments, each in input order. The inputs are not modified.
func BuildHistory(charges, settlements, adjustments []LedgerEvent) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(charges)+len(settlements)+len(adjustments))

	entries = appendTagged(entries, charges, EntryKindCharge)
	entries = appendTagged(entries, settlements, EntryKindSettlement)
	entries = appendTagged(entries, adjustments, EntryKindAdjustment)

	slices.SortStableFunc(entries, func(a, b HistoryEntry) int {
		return b.Date.Compare(a.Date)
	})

	total := ComputeBalance(charges, settlements, adjustments)
	running := total
	for i := range entries {
		entries[i].Balance = running
		running = running.Sub(entries[i].Delta)
	}

	// The oldest row carries exactly its own delta, so nothing may be left over.
	if len(entries) > 0 {
		if !entries[0].Balance.Equal(total) || !running.IsZero() {
			panic(fmt.Sprintf("ledger: running balance mismatch (total=%s residue=%s)", total, running))
		}
	}

	return entries
}

// BuildStatement computes the balance and the annotated history together.
func BuildStatement(charges, settlements, adjustments []LedgerEvent) Statement {
	return Statement{
		Balance: ComputeBalance(charges, settlements, adjustments),
		Entries: BuildHistory(charges, settlements, adjustments),
	}
}

func appendTagged(dst []HistoryEntry, events []LedgerEvent, kind EntryKind) []HistoryEntry {
	for _, e := range events {
		e.Kind = kind
		if kind == EntryKindAdjustment && !e.Direction.Valid() {
			e.Direction = DirectionDebit
		}
		dst = append(dst, HistoryEntry{LedgerEvent: e, Delta: e.Delta()})
	}
	return dst
}
