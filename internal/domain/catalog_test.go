package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinLines(lines ...string) string { return strings.Join(lines, "\n") }

var whitespaceCatalog = joinLines(
	"TABLE OF MOSMIX STATIONS",
	"ID    ICAO NAME                 LAT    LON     ELEV",
	"01001 ENJA JAN_MAYEN            70.56  -8.40   10",
	"01008 ---- SVALBARD             78.15  15.28   xx",
	"01025 ENTC TROMSOE   69.41",
	"10865 EDDM MUENCHEN             48.08  11.29   abc",
)

var fixedWidthCatalog = joinLines(
	"Stationskatalog MOSMIX",
	"clu   CofX  id    ICAO name                 nb.    el.     elev  Hmod-H type",
	"===== ===== ===== ==== ==================== ====== ======= ===== ====== ====",
	" 1004     1 01001 ENJA JAN MAYEN             70.56   -8.40    10     29 LAND",
	" 1005       01008 ---- SVALBARD LUFTHAVN     78.15   15.28    xx        LAND",
	" 2001     3 10865 EDDM MÜNCHEN-STADT         48.16   11.54   515     -3 SHIP",
	" 3001     2 99999 XXXX TRUNCATED",
)

func TestDecodeStationCatalog_Whitespace(t *testing.T) {
	stations := DecodeStationCatalog(whitespaceCatalog)
	require.Len(t, stations, 3)

	jm := stations[0]
	assert.Equal(t, "01001", jm.ID)
	require.NotNil(t, jm.ICAO)
	assert.Equal(t, "ENJA", *jm.ICAO)
	assert.Equal(t, "JAN_MAYEN", jm.Name)
	assert.Equal(t, 70.56, jm.Latitude)
	assert.Equal(t, -8.40, jm.Longitude)
	assert.Equal(t, 10, jm.Elevation)
	assert.Nil(t, jm.ClusterID)
	assert.Empty(t, jm.StationType)

	sv := stations[1]
	assert.Equal(t, "01008", sv.ID)
	assert.Nil(t, sv.ICAO, "undefined ICAO should be absent")
	assert.Equal(t, 0, sv.Elevation, "bad elevation defaults to zero")

	assert.Equal(t, "10865", stations[2].ID)
	assert.Equal(t, 0, stations[2].Elevation)
}

func TestDecodeStationCatalog_FixedWidth(t *testing.T) {
	stations := DecodeStationCatalog(fixedWidthCatalog)
	require.Len(t, stations, 3)

	jm := stations[0]
	require.NotNil(t, jm.ClusterID)
	assert.Equal(t, 1004, *jm.ClusterID)
	require.NotNil(t, jm.Coefficient)
	assert.Equal(t, uint(1), *jm.Coefficient)
	assert.Equal(t, "01001", jm.ID)
	assert.Equal(t, "ENJA", *jm.ICAO)
	assert.Equal(t, "JAN MAYEN", jm.Name)
	assert.Equal(t, 70.56, jm.Latitude)
	assert.Equal(t, -8.40, jm.Longitude)
	assert.Equal(t, 10, jm.Elevation)
	require.NotNil(t, jm.ModelHeight)
	assert.Equal(t, 29, *jm.ModelHeight)
	assert.Equal(t, "LAND", jm.StationType)

	sv := stations[1]
	assert.Nil(t, sv.Coefficient)
	assert.Nil(t, sv.ICAO)
	assert.Equal(t, "SVALBARD LUFTHAVN", sv.Name)
	assert.Equal(t, 0, sv.Elevation)
	assert.Nil(t, sv.ModelHeight)

	mu := stations[2]
	assert.Equal(t, "MÜNCHEN-STADT", mu.Name)
	assert.Equal(t, 515, mu.Elevation)
	assert.Equal(t, -3, *mu.ModelHeight)
	assert.Equal(t, "SHIP", mu.StationType)
}

func TestDecodeStationCatalog_MultipleTables(t *testing.T) {
	text := whitespaceCatalog + "\n\n" + fixedWidthCatalog + "\n\n\n"
	stations := DecodeStationCatalog(text)
	require.Len(t, stations, 6)
	assert.Equal(t, "01001", stations[0].ID)
	assert.Nil(t, stations[0].ClusterID)
	assert.Equal(t, "01001", stations[3].ID)
	assert.NotNil(t, stations[3].ClusterID)
}

func TestDecodeStationCatalog_CRLF(t *testing.T) {
	text := strings.ReplaceAll(whitespaceCatalog, "\n", "\r\n")
	assert.Len(t, DecodeStationCatalog(text), 3)
}

func TestDecodeStationCatalog_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"header only", joinLines("TITLE", "ID ICAO NAME LAT LON ELEV")},
		{"five tokens", joinLines("TITLE", "HEADER", "01001 ENJA JAN_MAYEN 70.56 -8.40")},
		{"seven tokens", joinLines("TITLE", "HEADER", "01001 ENJA JAN MAYEN 70.56 -8.40 10")},
		{"undefined id", joinLines("TITLE", "HEADER", "----- ---- ---- ---- ---- ----")},
		{"garbage", "\x00\x01\x02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stations := DecodeStationCatalog(tt.text)
			assert.NotNil(t, stations)
			assert.Empty(t, stations)
		})
	}
}

func TestDecodeStationCatalog_NineSegmentRuleUsesWhitespace(t *testing.T) {
	text := joinLines(
		"TITLE",
		"HEADER",
		"===== ===== ===== ==== ==== ====== ======= ===== ======",
		"01001 ENJA JAN_MAYEN 70.56 -8.40 10",
	)
	stations := DecodeStationCatalog(text)
	require.Len(t, stations, 1)
	assert.Nil(t, stations[0].ClusterID)
}

func TestDecodeStationCatalog_Idempotent(t *testing.T) {
	assert.Equal(t, DecodeStationCatalog(fixedWidthCatalog), DecodeStationCatalog(fixedWidthCatalog))
}

func TestStationRecord_JSON(t *testing.T) {
	stations := DecodeStationCatalog(whitespaceCatalog)
	data, err := json.Marshal(stations[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"01008","icao":null,"name":"SVALBARD","latitude":78.15,"longitude":15.28,"elevation":0}`, string(data))
}

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected catalogLayout
	}{
		{"ten rule segments", "= = = = = = = = = =", layoutFixedWidth},
		{"dash rule", "- - - - - - - - - -", layoutFixedWidth},
		{"nine rule segments", "= = = = = = = = =", layoutWhitespace},
		{"ten data tokens", "a b c d e f g h i j", layoutWhitespace},
		{"data line", "01001 ENJA JAN_MAYEN 70.56 -8.40 10", layoutWhitespace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectLayout(tt.line))
		})
	}
}

func TestSliceFixedWidth(t *testing.T) {
	fields, ok := sliceFixedWidth("ab cde f", []int{2, 3, 1})
	require.True(t, ok)
	assert.Equal(t, []string{"ab", "cde", "f"}, fields)

	_, ok = sliceFixedWidth("ab cd", []int{2, 3})
	assert.False(t, ok)
}
