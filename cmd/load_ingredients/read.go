package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"foodgram/internal/domain"

	"golang.org/x/text/unicode/norm"
)

type jsonIngredient struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ReadFile picks the parser by extension; anything but .json is CSV.
func ReadFile(path string) ([]domain.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadCSV(f)
}

// ReadCSV expects two columns per row without a header line.
func ReadCSV(r io.Reader) ([]domain.Ingredient, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var out []domain.Ingredient
	seen := map[[2]string]struct{}{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = appendUnique(out, seen, rec[0], rec[1])
	}
	return out, nil
}

func ReadJSON(r io.Reader) ([]domain.Ingredient, error) {
	var rows []jsonIngredient
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	var out []domain.Ingredient
	seen := map[[2]string]struct{}{}
	for _, row := range rows {
		out = appendUnique(out, seen, row.Name, row.MeasurementUnit)
	}
	return out, nil
}

// appendUnique нормализует (NFC, пробелы) и пропускает пустые и повторы.
func appendUnique(out []domain.Ingredient, seen map[[2]string]struct{}, name, unit string) []domain.Ingredient {
	name = norm.NFC.String(strings.TrimSpace(name))
	unit = norm.NFC.String(strings.TrimSpace(unit))
	if name == "" || unit == "" {
		return out
	}

	key := [2]string{name, unit}
	if _, ok := seen[key]; ok {
		return out
	}
	seen[key] = struct{}{}
	return append(out, domain.Ingredient{Name: name, MeasurementUnit: unit})
}
