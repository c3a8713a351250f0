package message

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the normalized flow of money in a parsed message.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
	// DirectionUnknown means the message carried no recognizable verb.
	DirectionUnknown Direction = ""
)

// Channels recognized in bank messages. The parser builds its match from
// this list; matching is case-insensitive and the stored value is uppercase.
var channels = []string{"UPI", "NEFT", "IMPS", "RTGS", "ATM", "POS", "NETBANKING"}

// ParsedTransaction is the structured view of one bank notification.
// Every field is independently optional: parsing never fails, it only
// leaves fields empty when the text doesn't yield them.
type ParsedTransaction struct {
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Direction    Direction        `json:"direction,omitempty"`
	Counterparty string           `json:"counterparty,omitempty"`
	Channel      string           `json:"channel,omitempty"`
	ReferenceID  string           `json:"referenceId,omitempty"`
	ObservedAt   time.Time        `json:"observedAt"`
	RawText      string           `json:"rawText"`
}

// HasAmount reports whether an amount was extracted.
func (p ParsedTransaction) HasAmount() bool {
	return p.Amount != nil
}

// IsCredit reports whether the message describes money coming in.
func (p ParsedTransaction) IsCredit() bool {
	return p.Direction == DirectionCredit
}

// IsDebit reports whether the message describes money going out.
func (p ParsedTransaction) IsDebit() bool {
	return p.Direction == DirectionDebit
}
