package domain

import (
	"math"
	"strconv"
	"strings"
)

// catalogLayout is the table format detected from a table's third line.
type catalogLayout int

const (
	layoutWhitespace catalogLayout = iota
	layoutFixedWidth
)

const (
	catalogHeaderLines   = 2  // title + column header
	whitespaceFieldCount = 6  // id icao name lat lon elevation
	fixedWidthFieldCount = 10 // clu CofX id ICAO name nb. el. elev Hmod-H type
)

// DecodeStationCatalog parses the MOSMIX station catalog. Tables are separated
// by blank lines and each is decoded with the layout detected from its rule
// line. Lines that do not have the expected shape are skipped; the decode
// itself never fails and returns an empty slice for unusable input.
func DecodeStationCatalog(text string) []StationRecord {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	stations := []StationRecord{}
	for _, table := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(table) == "" {
			continue
		}
		// Only newlines are trimmed; trailing blanks belong to fixed-width columns.
		lines := strings.Split(strings.Trim(table, "\n"), "\n")
		if len(lines) <= catalogHeaderLines {
			continue
		}
		body := lines[catalogHeaderLines:]

		switch detectLayout(body[0]) {
		case layoutFixedWidth:
			stations = append(stations, decodeFixedWidthTable(body)...)
		default:
			stations = append(stations, decodeWhitespaceTable(body)...)
		}
	}
	return stations
}

// detectLayout reports layoutFixedWidth when line is a rule line made of
// exactly ten '='/'-' segments.
func detectLayout(line string) catalogLayout {
	segments := strings.Fields(line)
	if len(segments) != fixedWidthFieldCount {
		return layoutWhitespace
	}
	for _, seg := range segments {
		if strings.Trim(seg, "=-") != "" {
			return layoutWhitespace
		}
	}
	return layoutFixedWidth
}

func decodeWhitespaceTable(lines []string) []StationRecord {
	var stations []StationRecord
	for _, line := range lines {
		if station, ok := parseWhitespaceLine(line); ok {
			stations = append(stations, station)
		}
	}
	return stations
}

// parseWhitespaceLine accepts lines with exactly six whitespace separated
// tokens. Numeric columns default to zero; only the shape rejects a line.
func parseWhitespaceLine(line string) (StationRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) != whitespaceFieldCount || IsUndefined(fields[0]) {
		return StationRecord{}, false
	}
	return StationRecord{
		ID:        fields[0],
		ICAO:      optionalString(fields[1]),
		Name:      fields[2],
		Latitude:  parseFloatOrZero(fields[3]),
		Longitude: parseFloatOrZero(fields[4]),
		Elevation: parseIntOrZero(fields[5]),
	}, true
}

// decodeFixedWidthTable slices data lines at the column widths given by the
// rule line in lines[0].
func decodeFixedWidthTable(lines []string) []StationRecord {
	widths := ruleWidths(lines[0])
	if len(widths) != fixedWidthFieldCount {
		return nil
	}

	var stations []StationRecord
	for _, line := range lines[1:] {
		fields, ok := sliceFixedWidth(line, widths)
		if !ok {
			continue
		}
		if station, ok := parseFixedWidthFields(fields); ok {
			stations = append(stations, station)
		}
	}
	return stations
}

// ruleWidths returns the length of each whitespace separated segment.
func ruleWidths(rule string) []int {
	segments := strings.Fields(rule)
	widths := make([]int, len(segments))
	for i, seg := range segments {
		widths[i] = len([]rune(seg))
	}
	return widths
}

// sliceFixedWidth cuts line into len(widths) fields, each followed by one
// separator column. Widths count runes so station names with umlauts line up.
// It fails when a field would extend past the end of the line.
func sliceFixedWidth(line string, widths []int) ([]string, bool) {
	runes := []rune(line)
	fields := make([]string, len(widths))
	offset := 0
	for i, w := range widths {
		end := offset + w
		if end > len(runes) {
			return nil, false
		}
		fields[i] = strings.TrimSpace(string(runes[offset:end]))
		offset = end + 1
	}
	return fields, true
}

func parseFixedWidthFields(f []string) (StationRecord, bool) {
	if f[2] == "" || IsUndefined(f[2]) {
		return StationRecord{}, false
	}
	clusterID := parseIntOrZero(f[0])
	return StationRecord{
		ClusterID:   &clusterID,
		Coefficient: parseOptionalUint(f[1]),
		ID:          f[2],
		ICAO:        optionalString(f[3]),
		Name:        f[4],
		Latitude:    parseFloatOrZero(f[5]),
		Longitude:   parseFloatOrZero(f[6]),
		Elevation:   parseIntOrZero(f[7]),
		ModelHeight: parseOptionalInt(f[8]),
		StationType: f[9],
	}, true
}

// parseFloatOrZero parses a string as float64, returning 0 on failure or for
// NaN and infinities, which JSON cannot carry.
func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseIntOrZero parses a string as int, returning 0 on failure.
func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseOptionalInt(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalUint(s string) *uint {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}
