package format

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/regosbridge/regosbridge/internal/i18n"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
)

// BalanceTables renders the partner balance report as one text table per
// currency, the terminal analog of the spreadsheet export.
func BalanceTables(ops []reports.BalanceOperation, tr *i18n.Translator, opts BalanceOptions) string {
	lang := opts.Lang
	if len(ops) == 0 {
		return tr.Get("no_data", lang)
	}

	var sections []string
	for _, group := range groupByCurrency(ops) {
		operations := sortByDate(group.ops, opts.NewestFirst)

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetTitle("💱 " + group.name)
		t.AppendHeader(table.Row{
			tr.Get("document_type", lang),
			tr.Get("document_code", lang),
			tr.Get("exchange_rate", lang),
			tr.Get("debit", lang),
			tr.Get("credit", lang),
			tr.Get("remainder", lang),
			tr.Get("date", lang),
		})

		for i, op := range operations {
			code := op.DocumentCode
			if code == "" {
				code = "—"
			}

			rate := "1.00"
			if op.Currency.ExchangeRate != 1 {
				rate = Amount(op.Currency.ExchangeRate)
			}

			debit, credit := "—", "—"
			if op.Debit != 0 {
				debit = Amount(op.Debit)
			}
			if op.Credit != 0 {
				credit = Amount(op.Credit)
			}

			remainder := Amount(op.Remainder())
			if i == len(operations)-1 {
				remainder += fmt.Sprintf(" (%s)", tr.Get("current", lang))
			}

			t.AppendRow(table.Row{
				tr.Getf(lang, "partner_document_type%d", op.DocumentType.ID),
				code,
				rate,
				debit,
				credit,
				remainder,
				chatDate(op.Date),
			})
		}

		sections = append(sections, t.Render())
	}
	return strings.Join(sections, "\n\n")
}

// TotalTables renders per-currency document type totals plus the grand total
// converted into every seen currency.
func TotalTables(ops []reports.BalanceOperation, tr *i18n.Translator, lang string) string {
	if len(ops) == 0 {
		return tr.Get("no_data", lang)
	}

	type seenCurrency struct {
		name string
		rate float64
	}
	var seen []seenCurrency
	totalInBase := 0.0

	var sections []string
	for _, group := range groupByCurrency(ops) {
		operations := sortByDate(group.ops, false)

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetTitle("💱 " + group.name)
		t.AppendHeader(table.Row{
			tr.Get("document_type", lang),
			tr.Get("total", lang),
		})

		currencyTotal := 0.0
		for _, docGroup := range groupByDocumentType(operations) {
			var totalCredit, totalDebit float64
			for _, op := range docGroup.ops {
				totalCredit += op.Debit
				totalDebit += op.Credit
			}
			value := totalDebit - totalCredit
			currencyTotal += value

			t.AppendRow(table.Row{
				tr.Getf(lang, "plural_partner_document_type%d", docGroup.id),
				Amount(value),
			})
		}
		t.AppendFooter(table.Row{tr.Get("currency_total", lang), Amount(currencyTotal)})
		sections = append(sections, t.Render())

		lastOp := operations[len(operations)-1]
		rate := lastOp.Currency.ExchangeRate
		if rate == 0 {
			rate = 1
		}
		seen = append(seen, seenCurrency{name: group.name, rate: rate})
		totalInBase += (currencyTotal + operations[0].StartAmount) * rate
	}

	grand := table.NewWriter()
	grand.SetStyle(table.StyleRounded)
	grand.SetTitle(strings.ToUpper(tr.Get("total", lang)))
	for _, c := range seen {
		grand.AppendRow(table.Row{c.name, Amount(totalInBase / c.rate)})
	}
	sections = append(sections, grand.Render())

	return strings.Join(sections, "\n\n")
}
