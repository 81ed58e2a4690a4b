package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regosbridge/regosbridge/internal/dates"
	"github.com/regosbridge/regosbridge/internal/i18n"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
)

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator()
	require.NoError(t, err)
	return tr
}

func balanceOp(currency string, rate float64, docType int, debit, credit float64, date time.Time) reports.BalanceOperation {
	return reports.BalanceOperation{
		DocumentType: reports.DocumentTypeRef{ID: docType},
		DocumentCode: "DOC-1",
		Currency:     reports.Currency{ID: 1, Name: currency, ExchangeRate: rate},
		Debit:        debit,
		Credit:       credit,
		Date:         date.Unix(),
	}
}

func TestBalanceMessagesNoData(t *testing.T) {
	tr := newTranslator(t)

	messages := BalanceMessages(nil, tr, BalanceOptions{Lang: "en"})
	require.Len(t, messages, 1)
	assert.Equal(t, "No data for the selected period", messages[0])
}

func TestBalanceMessagesGroupsByCurrency(t *testing.T) {
	tr := newTranslator(t)
	day := time.Date(2024, time.June, 1, 10, 0, 0, 0, dates.BusinessZone)

	ops := []reports.BalanceOperation{
		balanceOp("UZS", 1, 3, 0, 1000, day),
		balanceOp("USD", 12000, 5, 50, 0, day.Add(time.Hour)),
		balanceOp("UZS", 1, 5, 500, 0, day.Add(2*time.Hour)),
	}

	messages := BalanceMessages(ops, tr, BalanceOptions{Lang: "en"})
	require.Len(t, messages, 2)

	assert.True(t, strings.HasPrefix(messages[0], "💱 <b>UZS</b>"))
	assert.True(t, strings.HasPrefix(messages[1], "💱 <b>USD</b>"))

	// Two operations in the UZS section, oldest first.
	assert.Contains(t, messages[0], "Sale")
	assert.Contains(t, messages[0], "Incoming payment")
	assert.Less(t, strings.Index(messages[0], "Sale"), strings.Index(messages[0], "Incoming payment"))

	// Only the final operation of a section carries the current marker.
	assert.Equal(t, 1, strings.Count(messages[0], "(current)"))
	assert.Equal(t, 1, strings.Count(messages[1], "(current)"))
}

func TestBalanceMessagesNewestFirst(t *testing.T) {
	tr := newTranslator(t)
	day := time.Date(2024, time.June, 1, 10, 0, 0, 0, dates.BusinessZone)

	ops := []reports.BalanceOperation{
		balanceOp("UZS", 1, 3, 0, 1000, day),
		balanceOp("UZS", 1, 5, 500, 0, day.Add(2*time.Hour)),
	}

	messages := BalanceMessages(ops, tr, BalanceOptions{Lang: "en", NewestFirst: true})
	require.Len(t, messages, 1)
	assert.Less(t, strings.Index(messages[0], "Incoming payment"), strings.Index(messages[0], "Sale"))
}

func TestBalanceMessagesRendersAmountsAndDate(t *testing.T) {
	tr := newTranslator(t)
	day := time.Date(2024, time.June, 1, 10, 30, 0, 0, dates.BusinessZone)

	op := balanceOp("UZS", 1, 1, 0, 1234567.5, day)
	op.StartAmount = 100

	messages := BalanceMessages([]reports.BalanceOperation{op}, tr, BalanceOptions{Lang: "en"})
	require.Len(t, messages, 1)

	assert.Contains(t, messages[0], "🔴 <b>Credit:</b> 1 234 567.50")
	assert.Contains(t, messages[0], "01.06.24 10:30")
	// remainder = start + debit - credit
	assert.Contains(t, messages[0], "-1 234 467.50")
	// unit-rate currencies omit the exchange rate line
	assert.NotContains(t, messages[0], "Exchange rate")
}

func TestBalanceMessagesSplitsLongSections(t *testing.T) {
	tr := newTranslator(t)
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, dates.BusinessZone)

	ops := make([]reports.BalanceOperation, 40)
	for i := range ops {
		ops[i] = balanceOp("UZS", 1, i%9, float64(i)*10, 0, day.Add(time.Duration(i)*time.Hour))
	}

	messages := BalanceMessages(ops, tr, BalanceOptions{Lang: "en"})
	require.Greater(t, len(messages), 1)
	for i, msg := range messages {
		assert.LessOrEqual(t, len(msg), MessageLimit, "message %d exceeds the limit", i)
		assert.NotEmpty(t, msg)
	}
}

func TestTotalMessagesSwapsDebitAndCredit(t *testing.T) {
	tr := newTranslator(t)
	day := time.Date(2024, time.June, 1, 10, 0, 0, 0, dates.BusinessZone)

	first := balanceOp("UZS", 1, 1, 0, 1000, day)
	first.StartAmount = 50
	ops := []reports.BalanceOperation{
		first,
		balanceOp("UZS", 1, 5, 300, 0, day.Add(time.Hour)),
	}

	messages := TotalMessages(ops, tr, "en")
	require.Len(t, messages, 2)

	// Gateway credit becomes the partner's debit and vice versa.
	assert.Contains(t, messages[0], "📄 <b>Purchases</b>: 1 000.00")
	assert.Contains(t, messages[0], "📄 <b>Incoming payments</b>: -300.00")
	assert.Contains(t, messages[0], "💰 <b>Currency total:</b> 700.00")

	// Grand total folds in the opening balance: (700 + 50) * 1.
	assert.Equal(t, "<b>Total (UZS):</b> 750.00", messages[1])
}

func TestTotalMessagesGrandTotalPerCurrency(t *testing.T) {
	tr := newTranslator(t)
	day := time.Date(2024, time.June, 1, 10, 0, 0, 0, dates.BusinessZone)

	ops := []reports.BalanceOperation{
		balanceOp("UZS", 1, 1, 0, 120000, day),
		balanceOp("USD", 12000, 3, 0, 10, day.Add(time.Hour)),
	}

	messages := TotalMessages(ops, tr, "en")
	require.Len(t, messages, 3)

	// 120000*1 + 10*12000 = 240000 base units.
	lines := strings.Split(messages[2], "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "<b>Total (UZS):</b> 240 000.00", lines[0])
	assert.Equal(t, "<b>Total (USD):</b> 20.00", lines[1])
}

func TestTotalMessagesNoData(t *testing.T) {
	tr := newTranslator(t)

	messages := TotalMessages(nil, tr, "en")
	require.Len(t, messages, 1)
	assert.Equal(t, "No data for the selected period", messages[0])
}

func TestSplitMessage(t *testing.T) {
	paragraph := strings.Repeat("x", 300)
	text := strings.Repeat(paragraph+"\n\n", 10)

	parts := splitMessage(text)
	require.Greater(t, len(parts), 1)
	for _, part := range parts {
		assert.LessOrEqual(t, len(part), MessageLimit)
		assert.NotEmpty(t, part)
	}
	assert.Equal(t, 10, strings.Count(strings.Join(parts, "\n\n"), paragraph))
}
