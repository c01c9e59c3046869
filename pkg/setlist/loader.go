// Package setlist loads a hand-authored CSV/TSV setlist and converts it into
// the song boundary records the show loader consumes. It exists for the
// archival workflow: setlists are maintained as spreadsheets long before a
// show.json exists.
package setlist

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var requiredHeaders = []string{"title", "start_time", "duration"}

// Row represents a validated entry from a setlist file. Hues are optional;
// a row without them gets the neutral palette downstream.
type Row struct {
	Index           int
	Title           string
	StartRaw        string
	Start           time.Duration
	DurationSeconds int
	PrimaryHue      *float64
	SecondaryHue    *float64
}

// StartFrame returns the row's first frame at the given frame rate.
func (r Row) StartFrame(fps int) int {
	return int(r.Start.Seconds() * float64(fps))
}

// EndFrame returns the row's past-the-end frame at the given frame rate.
func (r Row) EndFrame(fps int) int {
	return r.StartFrame(fps) + r.DurationSeconds*fps
}

// Load reads a CSV/TSV setlist, validates its contents, and returns
// normalized rows. When validation issues are found, the returned error will
// be of type ValidationErrors and still include any successfully parsed rows
// to allow callers to continue working with the data.
func Load(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if len(data) == 0 {
		return nil, errors.New("setlist file is empty")
	}

	comma, err := detectDelimiter(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	var (
		rows      []Row
		errs      ValidationErrors
		headerMap map[string]int
		line      = 0
	)

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse file: %w", err)
		}
		line++

		if line == 1 {
			headerMap, err = buildHeaderMap(record)
			if err != nil {
				return nil, err
			}
			continue
		}

		if isEmptyRecord(record) {
			continue
		}

		row, rowErrs := parseRecord(record, headerMap, len(rows)+1, line)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
		}
		rows = append(rows, row)
	}

	if headerMap == nil {
		return nil, errors.New("missing header row")
	}

	if len(rows) == 0 {
		return nil, errors.New("no data rows found")
	}

	if len(errs) > 0 {
		return rows, errs
	}

	return rows, nil
}

func detectDelimiter(data []byte) (rune, error) {
	// Skip UTF-8 BOM if present.
	dataStr := string(data)
	dataStr = strings.TrimPrefix(dataStr, "\uFEFF")

	newline := strings.IndexAny(dataStr, "\r\n")
	var headerLine string
	if newline == -1 {
		headerLine = dataStr
	} else {
		headerLine = dataStr[:newline]
	}

	if strings.Count(headerLine, "\t") > 0 {
		return '\t', nil
	}

	if strings.Count(headerLine, ",") > 0 {
		return ',', nil
	}

	return 0, errors.New("unable to detect delimiter (expected comma or tab)")
}

func buildHeaderMap(header []string) (map[string]int, error) {
	if len(header) == 0 {
		return nil, errors.New("header row is empty")
	}

	headerMap := make(map[string]int, len(header))
	for idx, raw := range header {
		name := normalizeHeader(raw)
		if _, exists := headerMap[name]; exists {
			return nil, fmt.Errorf("duplicate header: %s", name)
		}
		headerMap[name] = idx
	}

	for _, required := range requiredHeaders {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("missing required header: %s", required)
		}
	}

	return headerMap, nil
}

func normalizeHeader(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "\uFEFF")
	return strings.ToLower(value)
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRecord(record []string, header map[string]int, index, line int) (Row, []ValidationError) {
	var errs []ValidationError

	get := func(field string) string {
		pos, ok := header[field]
		if !ok {
			return ""
		}
		if pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(record[pos], "\uFEFF"))
	}

	title := get("title")
	if title == "" {
		errs = append(errs, ValidationError{Line: line, Field: "title", Message: "title is required"})
	}

	startRaw := get("start_time")
	var startDur time.Duration
	if startRaw == "" {
		errs = append(errs, ValidationError{Line: line, Field: "start_time", Message: "start_time is required"})
	} else {
		d, err := parseStartTime(startRaw)
		if err != nil {
			errs = append(errs, ValidationError{Line: line, Field: "start_time", Message: err.Error()})
		} else {
			startDur = d
		}
	}

	durationRaw := get("duration")
	durationSeconds := 0
	if durationRaw == "" {
		errs = append(errs, ValidationError{Line: line, Field: "duration", Message: "duration is required"})
	} else {
		value, err := strconv.Atoi(durationRaw)
		if err != nil {
			errs = append(errs, ValidationError{Line: line, Field: "duration", Message: "duration must be an integer"})
		} else if value <= 0 {
			errs = append(errs, ValidationError{Line: line, Field: "duration", Message: "duration must be greater than 0"})
		} else {
			durationSeconds = value
		}
	}

	row := Row{
		Index:           index,
		Title:           title,
		StartRaw:        startRaw,
		Start:           startDur,
		DurationSeconds: durationSeconds,
	}

	row.PrimaryHue = parseOptionalHue("primary_hue", get("primary_hue"), line, &errs)
	row.SecondaryHue = parseOptionalHue("secondary_hue", get("secondary_hue"), line, &errs)

	return row, errs
}

func parseOptionalHue(field, raw string, line int, errs *[]ValidationError) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, ValidationError{Line: line, Field: field, Message: "hue must be a number"})
		return nil
	}
	return &value
}

func parseStartTime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("start_time is required")
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid start_time %q", value)
	}

	var hours, minutes int
	var err error

	if len(parts) == 2 {
		minutes, err = parseComponent("minutes", parts[0], 59)
		if err != nil {
			return 0, err
		}
	} else {
		hours, err = parseComponent("hours", parts[0], -1)
		if err != nil {
			return 0, err
		}
		minutes, err = parseComponent("minutes", parts[1], 59)
		if err != nil {
			return 0, err
		}
	}

	seconds, err := parseComponent("seconds", parts[len(parts)-1], 59)
	if err != nil {
		return 0, err
	}

	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}

func parseComponent(name, raw string, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be non-negative", name)
	}
	if max >= 0 && value > max {
		return 0, fmt.Errorf("%s must be <= %d", name, max)
	}
	return value, nil
}
