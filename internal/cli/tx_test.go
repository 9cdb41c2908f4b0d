package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebank/ledgerkit/internal/ledger"
)

func TestParseTransactionType(t *testing.T) {
	parsed, err := parseTransactionType("income")
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeIncome, parsed)

	parsed, err = parseTransactionType("expense")
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeExpense, parsed)

	_, err = parseTransactionType("transfer")
	assert.Error(t, err)
	_, err = parseTransactionType("")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), parsed)

	parsed, err = parseDate("2024-03-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, parsed.Hour())

	_, err = parseDate("march first")
	assert.Error(t, err)

	// Empty defaults to today's UTC midnight.
	parsed, err = parseDate("")
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.Hour())
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestLoadAttachmentEmptyPath(t *testing.T) {
	file, err := loadAttachment("")
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestLoadAttachmentMissingFile(t *testing.T) {
	_, err := loadAttachment("/nonexistent/receipt.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading attachment")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "exactly-te", clip("exactly-te", 10))
	long := clip("a very long description that keeps going", 10)
	assert.LessOrEqual(t, len(long), 10)
	assert.Contains(t, long, "...")
}
