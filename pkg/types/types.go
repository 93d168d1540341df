package types

// Direction is the side of a logged trade
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Status represents whether a logged trade is still open
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// KeySchema names the partition and sort key attributes of the trade table
type KeySchema struct {
	PartitionKey string
	SortKey      string
}

// DefaultKeySchema is used when no key names are configured
var DefaultKeySchema = KeySchema{PartitionKey: "PK", SortKey: "SK"}

// AttributeNames are the stored attribute names of every non-key TradeRecord field
var AttributeNames = []string{
	"tradeId", "symbol", "direction", "qty", "entryPrice", "exitPrice",
	"status", "strategy", "openedAt", "closedAt", "notes",
}

// TradeRecord is a canonical trade log entry.
//
// The key fields are stored under the configured KeySchema attribute names, so they
// carry no fixed attribute tag. Strategy, ClosedAt and Notes hold whatever JSON value
// the caller sent (nil when absent).
type TradeRecord struct {
	PartitionKey string    `json:"-" dynamodbav:"-"`
	SortKey      string    `json:"-" dynamodbav:"-"`
	TradeID      string    `json:"tradeId" dynamodbav:"tradeId"`
	Symbol       string    `json:"symbol" dynamodbav:"symbol"`
	Direction    Direction `json:"direction" dynamodbav:"direction"`
	Qty          float64   `json:"qty" dynamodbav:"qty"`
	EntryPrice   float64   `json:"entryPrice" dynamodbav:"entryPrice"`
	ExitPrice    float64   `json:"exitPrice" dynamodbav:"exitPrice"`
	Status       Status    `json:"status" dynamodbav:"status"`
	Strategy     any       `json:"strategy" dynamodbav:"strategy"`
	OpenedAt     string    `json:"openedAt" dynamodbav:"openedAt"`
	ClosedAt     any       `json:"closedAt" dynamodbav:"closedAt"`
	Notes        any       `json:"notes" dynamodbav:"notes"`
}

// IsClosed reports whether the trade has been closed
func (t *TradeRecord) IsClosed() bool {
	return t.Status == StatusClosed
}

// IsShort reports whether the trade is a short
func (t *TradeRecord) IsShort() bool {
	return t.Direction == DirectionShort
}

// Item returns the record as a flat attribute map with the keys stored under the
// names in the schema.
func (t *TradeRecord) Item(keys KeySchema) map[string]any {
	return map[string]any{
		keys.PartitionKey: t.PartitionKey,
		keys.SortKey:      t.SortKey,
		"tradeId":         t.TradeID,
		"symbol":          t.Symbol,
		"direction":       string(t.Direction),
		"qty":             t.Qty,
		"entryPrice":      t.EntryPrice,
		"exitPrice":       t.ExitPrice,
		"status":          string(t.Status),
		"strategy":        t.Strategy,
		"openedAt":        t.OpenedAt,
		"closedAt":        t.ClosedAt,
		"notes":           t.Notes,
	}
}
