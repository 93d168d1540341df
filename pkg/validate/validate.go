package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

// Business fields that must be present on every trade, in reporting order
var requiredFields = []string{"symbol", "direction", "qty", "entryPrice", "status", "openedAt"}

const (
	partitionAlias = "acctId"
	sortAlias      = "sortKey"
)

// ErrInvalidJSON is returned by Decode when the body is not valid JSON
var ErrInvalidJSON = errors.New("invalid JSON")

// MissingFieldsError lists every required field absent from the input
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing fields: %s", strings.Join(e.Fields, ", "))
}

// Decode parses a raw request body and validates it. An empty body is treated as an
// empty object, and a JSON value that is not an object carries no fields.
func Decode(body []byte, keys types.KeySchema) (types.TradeRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Trade(map[string]any{}, keys)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return types.TradeRecord{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	input, ok := raw.(map[string]any)
	if !ok {
		input = map[string]any{}
	}
	return Trade(input, keys)
}

// Trade turns an untyped input mapping into a canonical TradeRecord. When required
// fields are absent it returns a *MissingFieldsError naming all of them; key fields are
// reported under the configured key names.
func Trade(input map[string]any, keys types.KeySchema) (types.TradeRecord, error) {
	pk, pkOK := firstTruthy(input, "PK", keys.PartitionKey, partitionAlias)
	sk, skOK := firstTruthy(input, "SK", keys.SortKey, sortAlias)

	var missing []string
	if !pkOK {
		missing = append(missing, keys.PartitionKey)
	}
	if !skOK {
		missing = append(missing, keys.SortKey)
	}
	for _, field := range requiredFields {
		if isMissing(input[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return types.TradeRecord{}, &MissingFieldsError{Fields: missing}
	}

	record := types.TradeRecord{
		PartitionKey: toString(pk),
		SortKey:      toString(sk),
		Symbol:       upper(toString(input["symbol"])),
		Direction:    types.DirectionLong,
		Qty:          toNumber(input["qty"]),
		EntryPrice:   toNumber(input["entryPrice"]),
		ExitPrice:    toNumber(input["exitPrice"]),
		Status:       types.StatusOpen,
		Strategy:     input["strategy"],
		OpenedAt:     toString(input["openedAt"]),
		ClosedAt:     input["closedAt"],
		Notes:        input["notes"],
	}

	if truthy(input["tradeId"]) {
		record.TradeID = toString(input["tradeId"])
	}
	if s, ok := input["direction"].(string); ok && s == string(types.DirectionShort) {
		record.Direction = types.DirectionShort
	}
	if s, ok := input["status"].(string); ok && s == string(types.StatusClosed) {
		record.Status = types.StatusClosed
	}

	return record, nil
}

// upper applies full Unicode case mapping, so "ß" becomes "SS"
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// firstTruthy returns the first truthy value among the named fields
func firstTruthy(input map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		if v := input[name]; truthy(v) {
			return v, true
		}
	}
	return nil, false
}
