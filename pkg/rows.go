package evt

import (
	"fmt"
	"strconv"
	"strings"
)

func parseFloats(tokens []string) ([]float64, error) {
	row := make([]float64, len(tokens))
	for i, token := range tokens {
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		row[i] = value
	}
	return row, nil
}

// ParseRow parses the values of a multi-row tag.
func ParseRow(values string) ([]float64, error) {
	return parseFloats(strings.Fields(values))
}

// FormatRow encodes a numeric row back into EVT tokens.
func FormatRow(row []float64) string {
	tokens := make([]string, len(row))
	for i, value := range row {
		tokens[i] = strconv.FormatFloat(value, 'g', -1, 64)
	}
	return strings.Join(tokens, " ")
}
