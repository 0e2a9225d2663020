package api

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// amountField decodes an amount that must be a JSON number. Decoding never
// fails the request; a rejected value keeps its reason in err so validation
// can report it in order. JSON null leaves the field unset.
type amountField struct {
	err   error
	value int64
	set   bool
}

func (a *amountField) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	a.set = true
	if raw == "" || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		a.err = fmt.Errorf("%w: must be a JSON number", common.ErrInvalidAmount)
		return nil
	}
	a.value, a.err = model.ParseAmountLiteral(raw)
	return nil
}

// required returns the amount, or why there is none.
func (a amountField) required() (int64, error) {
	if !a.set {
		return 0, fmt.Errorf("%w: missing amount", common.ErrInvalidAmount)
	}
	if a.err != nil {
		return 0, a.err
	}
	return a.value, nil
}
