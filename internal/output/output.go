// Package output selects how CLI commands render report results.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/regosbridge/regosbridge/internal/format"
	"github.com/regosbridge/regosbridge/internal/i18n"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMessages Format = "messages"
)

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMessages):
		return FormatMessages, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// BalanceOptions shape the balance rendering.
type BalanceOptions struct {
	Lang        string
	NewestFirst bool
	Totals      bool
}

// RenderBalance renders partner balance rows in the requested format.
func RenderBalance(f Format, rows []reports.BalanceOperation, tr *i18n.Translator, opts BalanceOptions) (string, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatMessages:
		var messages []string
		if opts.Totals {
			messages = format.TotalMessages(rows, tr, opts.Lang)
		} else {
			messages = format.BalanceMessages(rows, tr, format.BalanceOptions{Lang: opts.Lang, NewestFirst: opts.NewestFirst})
		}
		return strings.Join(messages, "\n\n----\n\n"), nil
	default:
		if opts.Totals {
			return format.TotalTables(rows, tr, opts.Lang), nil
		}
		return format.BalanceTables(rows, tr, format.BalanceOptions{Lang: opts.Lang, NewestFirst: opts.NewestFirst}), nil
	}
}

// RenderStock renders a stock operations report in the requested format.
func RenderStock(f Format, report *reports.StockOperationsReport, tr *i18n.Translator, lang string, kind format.ValueKind) (string, error) {
	if f == FormatJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	messages, totals, err := format.StockMessages(report, tr, lang, kind)
	if err != nil {
		return "", err
	}
	rendered := strings.Join(messages, "\n\n----\n\n")
	rendered += fmt.Sprintf("\n\n%d/%d, %s", totals.Documents, totals.Operations, format.Amount(totals.Total))
	return rendered, nil
}
