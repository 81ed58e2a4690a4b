package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := NewTranslator()
	require.NoError(t, err)
	return tr
}

func TestTranslatorLanguages(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, []string{"en", "ru", "uz"}, tr.Languages())
	assert.True(t, tr.Has("en"))
	assert.False(t, tr.Has("de"))
}

func TestTranslatorGet(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "Debit", tr.Get("debit", "en"))
	assert.Equal(t, "Warehouse", tr.Get("stock", "en"))
}

func TestTranslatorGetUnknownLanguageFallsBack(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, tr.Get("debit", DefaultLanguage), tr.Get("debit", "de"))
}

func TestTranslatorGetUnknownKeyFallsBackToKey(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "nonexistent_key", tr.Get("nonexistent_key", "en"))
	assert.Equal(t, "nonexistent_key", tr.Get("nonexistent_key", "de"))
}

func TestTranslatorGetf(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "June", tr.Getf("en", "month_%d", 6))
	assert.Equal(t, "Sale", tr.Getf("en", "partner_document_type%d", 3))
	assert.Equal(t, "Sales", tr.Getf("en", "plural_partner_document_type%d", 3))
}

func TestTranslatorCatalogsAligned(t *testing.T) {
	tr := newTranslator(t)

	// Every catalog must answer the keys the report renderers rely on.
	keys := []string{
		"no_data", "document", "debit", "credit", "remainder",
		"currency_total", "grand_total", "document_total",
		"documents_count", "operations_count", "total_amount",
	}
	for _, lang := range tr.Languages() {
		for _, key := range keys {
			assert.NotEqual(t, key, tr.Get(key, lang), "locale %s is missing %s", lang, key)
		}
	}
}

func TestTranslatorVersion(t *testing.T) {
	tr := newTranslator(t)

	version, lastUpdated, err := tr.Version("en")
	require.NoError(t, err)
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, lastUpdated)

	_, _, err = tr.Version("de")
	assert.Error(t, err)
}
