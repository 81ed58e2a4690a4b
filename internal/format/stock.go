package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/regosbridge/regosbridge/internal/dates"
	"github.com/regosbridge/regosbridge/internal/i18n"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
)

// ValueKind selects which per-unit value a stock report is priced with.
type ValueKind string

const (
	ValueCost  ValueKind = "cost"
	ValuePrice ValueKind = "price"
)

// Valid reports whether the kind is one of the supported values.
func (k ValueKind) Valid() bool {
	return k == ValueCost || k == ValuePrice
}

// StockTotals summarizes a rendered stock operations report.
type StockTotals struct {
	Documents  int     `json:"documents"`
	Operations int     `json:"operations_count"`
	Total      float64 `json:"total"`
}

const stockDateLayout = "02.01.2006 15:04"

// StockMessages renders item movements as HTML chat messages, one or more per
// document. Long documents repeat their header on continuation messages.
func StockMessages(report *reports.StockOperationsReport, tr *i18n.Translator, lang string, kind ValueKind) ([]string, StockTotals, error) {
	if !kind.Valid() {
		return nil, StockTotals{}, fmt.Errorf("value kind must be %q or %q", ValueCost, ValuePrice)
	}
	if report == nil || len(report.Documents) == 0 {
		return []string{tr.Get("no_data", lang)}, StockTotals{}, nil
	}

	opsByDoc := make(map[int][]reports.StockOperation)
	for _, op := range report.Operations {
		opsByDoc[op.DocumentID] = append(opsByDoc[op.DocumentID], op)
	}

	var messages []string
	totals := StockTotals{Documents: len(report.Documents)}

	for _, doc := range report.Documents {
		docOps := opsByDoc[doc.ID]
		if len(docOps) == 0 {
			continue
		}

		header := stockHeader(doc, tr, lang)
		current := header
		docTotal := 0.0

		for i, op := range docOps {
			unit := op.Cost
			if kind == ValuePrice {
				unit = op.Price
			}
			lineTotal := op.Quantity * unit
			docTotal += lineTotal
			totals.Operations++

			itemName := fmt.Sprintf("%s (%s", op.Item.Name, op.Item.Code)
			if op.Item.Articul != "" {
				itemName += ", art: " + op.Item.Articul
			}
			itemName += ")"

			line := fmt.Sprintf("<b>%d. %s</b>\n   %s x %s = %s\n\n",
				i+1, itemName, Number(op.Quantity), Amount(unit), Amount(lineTotal))

			if len(current)+len(line) > MessageLimit {
				messages = append(messages, strings.TrimRight(current, "\n"))
				current = header + line
			} else {
				current += line
			}
		}

		footer := fmt.Sprintf("<b>%s</b>\n<b>%s: %s</b>\n\n",
			strings.Repeat("━", 18), tr.Get("document_total", lang), Amount(docTotal))
		if len(current)+len(footer) > MessageLimit {
			messages = append(messages, strings.TrimRight(current, "\n"))
			current = header + footer
		} else {
			current += footer
		}

		messages = append(messages, strings.TrimRight(current, "\n"))
		totals.Total += docTotal
	}

	summary := fmt.Sprintf("<b>📊 %s</b>\n\n<b>%s:</b> %d\n<b>%s:</b> %d\n<b>%s:</b> %s\n",
		tr.Get("grand_total", lang),
		tr.Get("documents_count", lang), totals.Documents,
		tr.Get("operations_count", lang), totals.Operations,
		tr.Get("total_amount", lang), Amount(totals.Total))
	messages = append(messages, summary)

	return messages, totals, nil
}

func stockHeader(doc reports.StockDocument, tr *i18n.Translator, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📄 %s: %s</b>\n", tr.Get("document", lang), doc.Code)
	fmt.Fprintf(&b, "<b>%s:</b> %s\n", tr.Get("stock", lang), doc.Stock.Name)
	fmt.Fprintf(&b, "<b>%s:</b> %s\n", tr.Get("firm", lang), doc.Stock.Firm.Name)
	fmt.Fprintf(&b, "<b>%s:</b> %s\n", tr.Get("date", lang), time.Unix(doc.Date, 0).In(dates.BusinessZone).Format(stockDateLayout))
	fmt.Fprintf(&b, "<b>%s:</b> %s", tr.Get("currency", lang), doc.Currency.Name)
	if doc.Currency.ExchangeRate != 1 && doc.Currency.ExchangeRate != 0 {
		fmt.Fprintf(&b, " (%s: %s)", tr.Get("exchange_rate", lang), Number(doc.Currency.ExchangeRate))
	}
	b.WriteString("\n\n")
	return b.String()
}
