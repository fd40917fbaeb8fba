package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	reportReservedColumns = 2 // date, time
	reportDateTimeLayout  = "02.01.06 15:04"
	reportTimestampKey    = "timestamp"
)

// DecodeWeatherReport parses a POI observation report.
//
// Row 0 names the properties and row 1 their units; the first two columns of
// both are reserved for date and time. Row 2 is free-text commentary and is
// skipped. Each later row becomes one Data entry keyed by property name.
//
// Missing header or unit rows and a unit/property count mismatch are
// structural errors. Data rows with an unparseable timestamp or more value
// columns than properties are dropped and counted in DroppedRows.
func DecodeWeatherReport(r io.Reader) (WeatherReport, error) {
	reader := newReportReader(r)

	header, err := reader.Read()
	if err != nil {
		return WeatherReport{}, headerError(err, KindNoHeaderRow)
	}
	properties := reservedTail(header)

	unitRow, err := reader.Read()
	if err != nil {
		return WeatherReport{}, headerError(err, KindNoUnitRow)
	}
	units := reservedTail(unitRow)
	if len(units) != len(properties) {
		return WeatherReport{}, newDecodeError(KindUnitMismatch,
			fmt.Errorf("%d properties, %d units", len(properties), len(units)))
	}

	unitMap := make(map[string]string, len(properties))
	for i, p := range properties {
		unitMap[p] = units[i]
	}

	report := WeatherReport{Units: unitMap, Data: []map[string]any{}}

	// Commentary row; its absence just means there is no data.
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return report, nil
		}
		if !isRecoverable(err) {
			return WeatherReport{}, newDecodeError(KindBadCSVLine, err)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if isRecoverable(err) {
				report.DroppedRows++
				continue
			}
			return WeatherReport{}, newDecodeError(KindBadCSVLine, err)
		}

		row, ok := parseReportRow(record, properties)
		if !ok {
			report.DroppedRows++
			continue
		}
		report.Data = append(report.Data, row)
	}
	return report, nil
}

func newReportReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // column counts are checked per row
	reader.LazyQuotes = true
	return reader
}

// headerError maps a failed read of a required leading row to its kind.
func headerError(err error, missing ErrorKind) error {
	if errors.Is(err, io.EOF) {
		return newDecodeError(missing, nil)
	}
	return newDecodeError(KindBadCSVLine, err)
}

// isRecoverable reports whether the reader can continue past err.
func isRecoverable(err error) bool {
	var perr *csv.ParseError
	return errors.Is(err, io.EOF) || errors.As(err, &perr)
}

func reservedTail(record []string) []string {
	if len(record) <= reportReservedColumns {
		return []string{}
	}
	return record[reportReservedColumns:]
}

// parseReportRow converts one data row. Undefined cells are omitted; numeric
// cells (comma or period decimal) become float64; anything else is kept as
// raw text.
func parseReportRow(record, properties []string) (map[string]any, bool) {
	if len(record) < reportReservedColumns {
		return nil, false
	}
	values := record[reportReservedColumns:]
	if len(values) > len(properties) {
		return nil, false
	}

	ts, err := time.Parse(reportDateTimeLayout, strings.TrimSpace(record[0])+" "+strings.TrimSpace(record[1]))
	if err != nil {
		return nil, false
	}

	row := make(map[string]any, len(values)+1)
	for i, raw := range values {
		if IsUndefined(raw) {
			continue
		}
		row[properties[i]] = parseReportValue(raw)
	}
	row[reportTimestampKey] = ts.UnixMilli()
	return row, true
}

func parseReportValue(raw string) any {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return raw
	}
	return v
}
