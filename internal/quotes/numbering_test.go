package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threedq/threedq/internal/settings"
)

func TestNextQuoteNumberFormatsAndAdvances(t *testing.T) {
	db := newTestDB(t)

	want := []string{"3DQ0001", "3DQ0002", "3DQ0003"}
	for i, expected := range want {
		tx, err := db.Begin()
		require.NoError(t, err)

		number, counter, err := NextQuoteNumber(tx)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.Equal(t, expected, number)
		assert.EqualValues(t, i+1, counter)
	}
}

func TestNextQuoteNumberUsesConfiguredPrefix(t *testing.T) {
	db := newTestDB(t)

	store := settings.NewStore(db)
	require.NoError(t, store.Set(settings.KeyQuotePrefix, "INV"))
	require.NoError(t, store.Set(settings.KeyQuoteCounter, "41"))

	tx, err := db.Begin()
	require.NoError(t, err)
	number, counter, err := NextQuoteNumber(tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "INV0042", number)
	assert.EqualValues(t, 42, counter)
}

func TestNextQuoteNumberRollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)

	tx, err := db.Begin()
	require.NoError(t, err)
	_, _, err = NextQuoteNumber(tx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	tx, err = db.Begin()
	require.NoError(t, err)
	number, _, err := NextQuoteNumber(tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "3DQ0001", number, "aborted allocation must not burn a number")
}
