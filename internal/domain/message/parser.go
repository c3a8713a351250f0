package message

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field extraction patterns. Each field is extracted independently, so a
// message that yields only some of them still produces a usable record.
var (
	amountRe  = regexp.MustCompile(`(?i)Rs\.?\s?([\d,]+(?:\.\d{1,2})?)`)
	verbRe    = regexp.MustCompile(`(?i)\b(debited|credited|withdrawn|deposited|received|sent)\b`)
	refRe     = regexp.MustCompile(`(?i)Ref\s*(?:No\.?)?\s*(\w+)`)
	channelRe = regexp.MustCompile(`(?i)\b(` + strings.Join(channels, "|") + `)\b`)

	// Counterparty clauses. Each clause runs until the next structural
	// token ("on", "via", "Ref"), a period, or the end of the message.
	toRe   = clauseRe("to")
	fromRe = clauseRe("from")
	byRe   = clauseRe("by")
	atRe   = clauseRe("at")
)

func clauseRe(prep string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + prep + `\s+([A-Za-z\s]+?)(?:\s+on\b|\s+via\b|\s+Ref\b|\.|\s*$)`)
}

var creditVerbs = map[string]struct{}{
	"credited":  {},
	"received":  {},
	"deposited": {},
}

var debitVerbs = map[string]struct{}{
	"debited":   {},
	"withdrawn": {},
	"sent":      {},
}

// Parse extracts a structured transaction from raw bank notification text,
// stamped with the current wall clock. It never fails: fields that cannot
// be recovered are simply left absent.
func Parse(raw string) ParsedTransaction {
	return ParseAt(raw, time.Now())
}

// ParseAt is Parse with an explicit observation time.
func ParseAt(raw string, observedAt time.Time) ParsedTransaction {
	parsed := ParsedTransaction{
		ObservedAt: observedAt,
		RawText:    raw,
	}

	parsed.Amount = extractAmount(raw)

	verb := ""
	if m := verbRe.FindStringSubmatch(raw); m != nil {
		verb = strings.ToLower(m[1])
	}
	if _, ok := creditVerbs[verb]; ok {
		parsed.Direction = DirectionCredit
	} else if _, ok := debitVerbs[verb]; ok {
		parsed.Direction = DirectionDebit
	}

	parsed.Counterparty = extractCounterparty(raw, parsed.Direction)

	if m := channelRe.FindStringSubmatch(raw); m != nil {
		parsed.Channel = strings.ToUpper(m[1])
	}

	if m := refRe.FindStringSubmatch(raw); m != nil {
		parsed.ReferenceID = m[1]
	}

	return parsed
}

func extractAmount(raw string) *decimal.Decimal {
	m := amountRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &amount
}

// extractCounterparty picks the clause that names the other party. The verb
// decides which preposition carries that role: money coming in names its
// source in a "from" clause (or "by" as fallback), money going out names
// its destination in a "to" clause (or "at" for POS/ATM style messages).
// A single message can contain both a "to" and an "at" clause in different
// roles, so the dispatch must happen before the clause match.
func extractCounterparty(raw string, dir Direction) string {
	if dir == DirectionCredit {
		return firstClause(raw, fromRe, byRe)
	}
	return firstClause(raw, toRe, atRe)
}

func firstClause(raw string, preferred, fallback *regexp.Regexp) string {
	if m := preferred.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fallback.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
