package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/AdamBeresnev/knockout-fixture/internal/service"
	"github.com/tidwall/jsonc"
	"github.com/xuri/excelize/v2"
)

// readParticipants picks a decoder from the file extension. Stdin has no
// name, so a leading '[' selects JSON there.
func readParticipants(name string, r io.Reader) ([]service.ParticipantInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", displayName(name), err)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		return parseJSON(data)
	case ".xlsx":
		return parseXLSX(data)
	}

	if name == "" && bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return parseJSON(data)
	}
	return service.ParseParticipantLines(string(data)), nil
}

func parseJSON(data []byte) ([]service.ParticipantInput, error) {
	var inputs []service.ParticipantInput
	if err := json.Unmarshal(jsonc.ToJSON(data), &inputs); err != nil {
		if errors.Is(err, bracket.ErrInvalidInput) {
			return nil, err
		}
		return nil, bracket.InvalidInput("participants file is not a JSON array: %s", strings.TrimPrefix(err.Error(), "json: "))
	}
	return inputs, nil
}

// First column of the first sheet, one participant per non-empty cell
func parseXLSX(data []byte) ([]service.ParticipantInput, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, bracket.InvalidInput("not a readable xlsx workbook: %s", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, bracket.InvalidInput("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var inputs []service.ParticipantInput
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if name := strings.TrimSpace(row[0]); name != "" {
			inputs = append(inputs, service.ParticipantInput{Name: name})
		}
	}
	return inputs, nil
}

func displayName(name string) string {
	if name == "" {
		return "stdin"
	}
	return name
}
