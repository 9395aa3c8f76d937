package bolplaza

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// MapCSV converts an export (offers, reductions) into records keyed by the
// header row. Reading stops at the first blank line.
func MapCSV(text string) ([]Record, error) {
	lines := lineBreak.Split(text, -1)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return []Record{}, nil
	}

	head, err := parseCSVLine(lines[0])
	if err != nil {
		return nil, fmt.Errorf("parsing csv header: %w", err)
	}

	records := make([]Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if line == "" {
			break
		}
		fields, err := parseCSVLine(line)
		if err != nil {
			return nil, fmt.Errorf("parsing csv row %d: %w", i+1, err)
		}

		rec := make(Record, len(fields))
		for j, v := range fields {
			if j >= len(head) {
				break
			}
			rec[head[j]] = typedColumn(head[j], v)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}

func typedColumn(name, v string) any {
	switch name {
	case "Stock":
		return parseInt(v)
	case "Price":
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0.0
		}
		return f
	case "Publish", "Published":
		return strings.EqualFold(strings.TrimSpace(v), "TRUE")
	}
	return v
}

func fmtValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprint(v)
}
