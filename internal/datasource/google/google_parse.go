package google

import (
	"fmt"
	"math"
	"strings"

	"showcase/internal/core"
)

const (
	colID = iota
	colName
	colCategory
	colValue
	colStatus
	colCreatedAt
)

// parseRows converts a values matrix into records, skipping a leading header
// row and any row that does not validate. It reports how many rows were dropped.
func parseRows(values [][]interface{}) ([]core.Record, int) {
	out := make([]core.Record, 0, len(values))
	skipped := 0
	for i, raw := range values {
		row := toStrings(raw)
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) == 0 || strings.TrimSpace(safeGet(row, colID)) == "" {
			continue
		}
		r, err := parseRow(raw, row)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}

func parseRow(raw []interface{}, row []string) (core.Record, error) {
	value, err := parseValueCell(raw, row)
	if err != nil {
		return core.Record{}, err
	}
	r := core.Record{
		ID:        safeGet(row, colID),
		Name:      safeGet(row, colName),
		Category:  safeGet(row, colCategory),
		Value:     value,
		Status:    core.Status(strings.ToLower(safeGet(row, colStatus))),
		CreatedAt: safeGet(row, colCreatedAt),
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}
	return r, nil
}

// parseValueCell accepts raw JSON numbers as well as formatted strings like "¥125,000".
func parseValueCell(raw []interface{}, row []string) (int64, error) {
	if colValue < len(raw) {
		if f, ok := raw[colValue].(float64); ok {
			if f < 0 || f != math.Trunc(f) || f > math.MaxInt64 {
				return 0, fmt.Errorf("%w: %v", core.ErrInvalidValue, f)
			}
			return int64(f), nil
		}
	}
	return core.ParseValue(safeGet(row, colValue))
}

func isHeader(row []string) bool {
	return strings.EqualFold(safeGet(row, colID), "id")
}

// findRow returns the zero-based sheet row holding id, or -1.
func findRow(values [][]interface{}, id string) int {
	for i, raw := range values {
		row := toStrings(raw)
		if safeGet(row, colID) == id {
			return i
		}
	}
	return -1
}

func toRow(r core.Record) []interface{} {
	return []interface{}{r.ID, r.Name, r.Category, r.Value, string(r.Status), r.CreatedAt}
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
