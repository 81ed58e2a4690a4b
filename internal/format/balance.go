// Package format renders REGOS report rows for delivery channels: HTML chat
// messages capped at the transport's length limit and plain-text tables.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/regosbridge/regosbridge/internal/dates"
	"github.com/regosbridge/regosbridge/internal/i18n"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
)

// MessageLimit is the hard cap chat transports place on one message.
const MessageLimit = 2048

const chatDateLayout = "02.01.06 15:04"

// BalanceOptions control the detailed balance rendering.
type BalanceOptions struct {
	Lang        string
	NewestFirst bool
}

// BalanceMessages renders the partner balance report as HTML chat messages,
// one section per currency, split so no message exceeds MessageLimit.
func BalanceMessages(ops []reports.BalanceOperation, tr *i18n.Translator, opts BalanceOptions) []string {
	lang := opts.Lang
	if len(ops) == 0 {
		return []string{tr.Get("no_data", lang)}
	}

	var messages []string
	for _, group := range groupByCurrency(ops) {
		operations := sortByDate(group.ops, opts.NewestFirst)

		var b strings.Builder
		fmt.Fprintf(&b, "💱 <b>%s</b>\n\n", group.name)

		for i, op := range operations {
			fmt.Fprintf(&b, "<b>%s</b>\n", tr.Getf(lang, "partner_document_type%d", op.DocumentType.ID))

			code := op.DocumentCode
			if code == "" {
				code = "—"
			}
			fmt.Fprintf(&b, "📄 <b>%s:</b> %s\n", tr.Get("document_code", lang), code)

			if op.Currency.ExchangeRate != 1 {
				fmt.Fprintf(&b, "🔢 <b>%s:</b> %s\n", tr.Get("exchange_rate", lang), Amount(op.Currency.ExchangeRate))
			}
			if op.Debit != 0 {
				fmt.Fprintf(&b, "🟢 <b>%s:</b> %s\n", tr.Get("debit", lang), Amount(op.Debit))
			}
			if op.Credit != 0 {
				fmt.Fprintf(&b, "🔴 <b>%s:</b> %s\n", tr.Get("credit", lang), Amount(op.Credit))
			}

			remLabel := tr.Get("remainder", lang)
			if i == len(operations)-1 {
				fmt.Fprintf(&b, "📊 <b>%s (%s):</b> %s\n", remLabel, tr.Get("current", lang), Amount(op.Remainder()))
			} else {
				fmt.Fprintf(&b, "📊 <b>%s:</b> %s\n", remLabel, Amount(op.Remainder()))
			}

			fmt.Fprintf(&b, "🕓 <b>%s:</b> %s\n\n", tr.Get("date", lang), chatDate(op.Date))
		}

		messages = append(messages, splitMessage(b.String())...)
	}
	return messages
}

// TotalMessages renders per-currency totals grouped by document type plus a
// closing grand total expressed in every seen currency.
func TotalMessages(ops []reports.BalanceOperation, tr *i18n.Translator, lang string) []string {
	if len(ops) == 0 {
		return []string{tr.Get("no_data", lang)}
	}

	var messages []string
	type seenCurrency struct {
		name string
		rate float64
	}
	var seen []seenCurrency
	totalInBase := 0.0

	for _, group := range groupByCurrency(ops) {
		operations := sortByDate(group.ops, false)

		var b strings.Builder
		fmt.Fprintf(&b, "💱 <b>%s</b>\n\n", group.name)

		currencyTotal := 0.0
		for _, docGroup := range groupByDocumentType(operations) {
			// From the partner's point of view debit and credit swap roles.
			var totalCredit, totalDebit float64
			for _, op := range docGroup.ops {
				totalCredit += op.Debit
				totalDebit += op.Credit
			}
			value := totalDebit - totalCredit
			currencyTotal += value

			name := tr.Getf(lang, "plural_partner_document_type%d", docGroup.id)
			fmt.Fprintf(&b, "📄 <b>%s</b>: %s\n", name, Amount(value))
		}

		fmt.Fprintf(&b, "💰 <b>%s:</b> %s\n", tr.Get("currency_total", lang), Amount(currencyTotal))

		lastOp := operations[len(operations)-1]
		rate := lastOp.Currency.ExchangeRate
		if rate == 0 {
			rate = 1
		}
		seen = append(seen, seenCurrency{name: group.name, rate: rate})
		totalInBase += (currencyTotal + operations[0].StartAmount) * rate

		messages = append(messages, splitMessage(b.String())...)
	}

	word := tr.Get("total", lang)
	var b strings.Builder
	for _, c := range seen {
		fmt.Fprintf(&b, "<b>%s (%s):</b> %s\n", word, c.name, Amount(totalInBase/c.rate))
	}
	messages = append(messages, strings.TrimSpace(b.String()))

	return messages
}

// splitMessage breaks text at paragraph boundaries so every piece fits
// within MessageLimit.
func splitMessage(text string) []string {
	var parts []string
	for len(text) > MessageLimit {
		idx := strings.LastIndex(text[:MessageLimit], "\n\n")
		if idx <= 0 {
			idx = MessageLimit
		}
		parts = append(parts, strings.TrimSpace(text[:idx]))
		text = strings.TrimSpace(text[idx:])
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		parts = append(parts, trimmed)
	}
	return parts
}

func chatDate(ts int64) string {
	return time.Unix(ts, 0).In(dates.BusinessZone).Format(chatDateLayout)
}

type currencyGroup struct {
	name string
	ops  []reports.BalanceOperation
}

// groupByCurrency preserves first-appearance order.
func groupByCurrency(ops []reports.BalanceOperation) []currencyGroup {
	index := make(map[string]int)
	var groups []currencyGroup
	for _, op := range ops {
		name := op.Currency.Name
		if name == "" {
			name = "Unknown"
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, currencyGroup{name: name})
		}
		groups[i].ops = append(groups[i].ops, op)
	}
	return groups
}

type docTypeGroup struct {
	id  int
	ops []reports.BalanceOperation
}

func groupByDocumentType(ops []reports.BalanceOperation) []docTypeGroup {
	index := make(map[int]int)
	var groups []docTypeGroup
	for _, op := range ops {
		id := op.DocumentType.ID
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, docTypeGroup{id: id})
		}
		groups[i].ops = append(groups[i].ops, op)
	}
	return groups
}

func sortByDate(ops []reports.BalanceOperation, newestFirst bool) []reports.BalanceOperation {
	sorted := make([]reports.BalanceOperation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		if newestFirst {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}
