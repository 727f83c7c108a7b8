package importer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ferrat/linguaflash/internal/importer"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestReadPhrases(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"prompt", "answer", "category", "difficulty"},
		{"hola", "hello", "greetings", "1"},
		{"adiós", "goodbye", "greetings", "2"},
	})

	phrases, result, err := importer.ReadPhrases(r)

	require.NoError(t, err)
	require.Len(t, phrases, 2)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Skipped)

	assert.Equal(t, "hola", phrases[0].Prompt)
	assert.Equal(t, "hello", phrases[0].Answer)
	assert.Equal(t, "greetings", phrases[0].Category)
	assert.Equal(t, 1, phrases[0].Difficulty)
	assert.Equal(t, 2, phrases[1].Difficulty)
}

func TestReadPhrases_SkipsIncompleteRows(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"prompt", "answer", "category", "difficulty"},
		{"hola", "", "greetings", "1"},
		{"", "goodbye", "greetings", "1"},
		{"gracias", "thanks", "", ""},
	})

	phrases, result, err := importer.ReadPhrases(r)

	require.NoError(t, err)
	require.Len(t, phrases, 1)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, result.Skipped, 2)
	assert.Equal(t, 1, phrases[0].Difficulty, "missing difficulty defaults to 1")
}

func TestReadPhrases_BadDifficulty(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"prompt", "answer", "category", "difficulty"},
		{"hola", "hello", "greetings", "hard"},
	})

	phrases, result, err := importer.ReadPhrases(r)

	require.NoError(t, err)
	assert.Empty(t, phrases)
	assert.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "bad difficulty")
}

func TestReadPhrases_NotASpreadsheet(t *testing.T) {
	_, _, err := importer.ReadPhrases(bytes.NewReader([]byte("not an xlsx file")))
	assert.Error(t, err)
}

func TestReadPhrases_HeaderOnly(t *testing.T) {
	r := buildSheet(t, [][]interface{}{
		{"prompt", "answer", "category", "difficulty"},
	})

	phrases, result, err := importer.ReadPhrases(r)

	require.NoError(t, err)
	assert.Empty(t, phrases)
	assert.Zero(t, result.TotalRows)
}
