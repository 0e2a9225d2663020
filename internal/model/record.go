package model

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-ledger/internal/common"
)

// DateLayout is the wire format of record dates: ISO-8601 in UTC with milliseconds.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// RecordInput carries the caller-supplied fields of a new record.
type RecordInput struct {
	Date     time.Time
	Type     RecordType
	Category RecordCategory
	Amount   int64
}

// RecordPatch carries the fields to change on an existing record. Nil fields are left alone.
type RecordPatch struct {
	Type     *RecordType
	Category *RecordCategory
	Amount   *int64
	Date     *time.Time
}

// Record is a single validated income or expense entry.
// The zero value is not a valid record; use NewRecord.
type Record struct {
	date     time.Time
	typ      RecordType
	category RecordCategory
	id       int64
	amount   int64
}

// Snapshot is a flattened copy of a record handed to callers.
type Snapshot struct {
	Date     time.Time      `json:"date"`
	Type     RecordType     `json:"type"`
	Category RecordCategory `json:"category"`
	ID       int64          `json:"id"`
	Amount   int64          `json:"amount"`
}

// NewRecord validates in and builds a record carrying id.
func NewRecord(id int64, in RecordInput) (Record, error) {
	r := Record{
		id:       id,
		typ:      in.Type,
		category: in.Category,
		amount:   in.Amount,
		date:     in.Date,
	}
	if err := r.validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// With returns a copy of r with the patch applied in type, category, amount,
// date order. The copy is validated as a whole so a type change is checked
// against the resulting category. r itself is never modified.
func (r Record) With(p RecordPatch) (Record, error) {
	next := r
	if p.Type != nil {
		next.typ = *p.Type
	}
	if p.Category != nil {
		next.category = *p.Category
	}
	if p.Amount != nil {
		next.amount = *p.Amount
	}
	if p.Date != nil {
		next.date = *p.Date
	}
	if err := next.validate(); err != nil {
		return r, err
	}
	return next, nil
}

func (r Record) validate() error {
	if !IsValidCategory(r.typ, r.category) {
		return fmt.Errorf("%w: %q for %q", common.ErrInvalidCategory, r.category, r.typ)
	}
	if r.amount <= 0 {
		return fmt.Errorf("%w: got %d", common.ErrInvalidAmount, r.amount)
	}
	if r.date.IsZero() {
		return fmt.Errorf("%w: missing date", common.ErrInvalidDate)
	}
	return nil
}

// ID returns the record identifier.
func (r Record) ID() int64 { return r.id }

// Type returns the record type.
func (r Record) Type() RecordType { return r.typ }

// Category returns the record category.
func (r Record) Category() RecordCategory { return r.category }

// Amount returns the record amount.
func (r Record) Amount() int64 { return r.amount }

// Date returns the record date.
func (r Record) Date() time.Time { return r.date }

// Snapshot returns the flattened view of r.
func (r Record) Snapshot() Snapshot {
	return Snapshot{
		ID:       r.id,
		Type:     r.typ,
		Category: r.category,
		Amount:   r.amount,
		Date:     r.date,
	}
}

// MarshalJSON renders the date in DateLayout.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type     RecordType     `json:"type"`
		Category RecordCategory `json:"category"`
		Date     string         `json:"date"`
		ID       int64          `json:"id"`
		Amount   int64          `json:"amount"`
	}
	return json.Marshal(wire{
		ID:       s.ID,
		Type:     s.Type,
		Category: s.Category,
		Amount:   s.Amount,
		Date:     s.Date.UTC().Format(DateLayout),
	})
}

// maxAmountDigits is the number of decimal digits in math.MaxInt64.
const maxAmountDigits = 19

// maxAmountLiteral bounds the length of an amount's text before it is parsed.
const maxAmountLiteral = 64

// ParseAmountLiteral parses the text of a JSON number into minor units.
func ParseAmountLiteral(s string) (int64, error) {
	if len(s) > maxAmountLiteral {
		return 0, fmt.Errorf("%w: number is too long", common.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrInvalidAmount, s)
	}
	return ParseAmount(d)
}

// ParseAmount converts a decoded amount into minor units, rejecting zero,
// negative, fractional and out of range values. The exponent is bounded
// before any rescaling so huge exponents fail fast.
func ParseAmount(d decimal.Decimal) (int64, error) {
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: must be greater than zero", common.ErrInvalidAmount)
	}

	coef := d.Coefficient()
	exp := int64(d.Exponent())

	if exp >= 0 {
		if exp >= maxAmountDigits || !coef.IsInt64() {
			return 0, errAmountRange
		}
		v := coef.Int64()
		for i := int64(0); i < exp; i++ {
			if v > math.MaxInt64/10 {
				return 0, errAmountRange
			}
			v *= 10
		}
		return v, nil
	}

	// coef has at most bitLen*log10(2)+1 digits; a larger negative exponent
	// leaves a positive value below one.
	shift := -exp
	if shift > int64(coef.BitLen())*30103/100000+1 {
		return 0, errAmountFraction
	}

	var rem big.Int
	quo, _ := new(big.Int).QuoRem(coef, new(big.Int).Exp(big.NewInt(10), big.NewInt(shift), nil), &rem)
	if rem.Sign() != 0 {
		return 0, errAmountFraction
	}
	if !quo.IsInt64() {
		return 0, errAmountRange
	}
	return quo.Int64(), nil
}

var (
	errAmountRange    = fmt.Errorf("%w: exceeds %d", common.ErrInvalidAmount, int64(math.MaxInt64))
	errAmountFraction = fmt.Errorf("%w: must be a whole number", common.ErrInvalidAmount)
)

// dateLayouts are the ISO-8601 forms accepted for record dates, tried in order.
// Forms without an offset are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDate parses an ISO-8601 timestamp or calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", common.ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date", common.ErrInvalidDate, s)
}

// IDSequence hands out record ids derived from the wall clock in milliseconds.
// Ids are strictly increasing within a process even when several are drawn
// inside the same millisecond.
type IDSequence struct {
	now  func() time.Time
	last atomic.Int64
}

// NewIDSequence returns a sequence reading the given clock. A nil clock uses time.Now.
func NewIDSequence(now func() time.Time) *IDSequence {
	if now == nil {
		now = time.Now
	}
	return &IDSequence{now: now}
}

// Next returns the next id.
func (s *IDSequence) Next() int64 {
	for {
		last := s.last.Load()
		next := s.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if s.last.CompareAndSwap(last, next) {
			return next
		}
	}
}
