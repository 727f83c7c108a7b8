// Package importer loads the phrase catalog from spreadsheets. Expected
// layout: one sheet with columns prompt, answer, category, difficulty and a
// header row.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ferrat/linguaflash/internal/models"
)

// Result holds the outcome of an import operation
type Result struct {
	TotalRows int
	Imported  int
	Skipped   []string
}

// ReadPhrases parses a spreadsheet into phrase records. Rows without both a
// prompt and an answer are skipped and reported, not fatal.
func ReadPhrases(r io.Reader) ([]models.Phrase, *Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &Result{}
	var phrases []models.Phrase
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		result.TotalRows++

		prompt := cell(row, 0)
		answer := cell(row, 1)
		if prompt == "" || answer == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: missing prompt or answer", i+1))
			continue
		}

		difficulty := 1
		if v := cell(row, 3); v != "" {
			if d, err := strconv.Atoi(v); err == nil && d > 0 {
				difficulty = d
			} else {
				result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: bad difficulty %q", i+1, v))
				continue
			}
		}

		phrases = append(phrases, models.Phrase{
			Prompt:     prompt,
			Answer:     answer,
			Category:   cell(row, 2),
			Difficulty: difficulty,
		})
		result.Imported++
	}

	return phrases, result, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
