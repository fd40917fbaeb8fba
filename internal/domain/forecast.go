package domain

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// KML document structure. Tags carry no namespace so both the kml: and dwd:
// prefixed elements and attributes match by local name.
type kmlRoot struct {
	Document *kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	ExtendedData *kmlDocumentData `xml:"ExtendedData"`
	Placemark    *kmlPlacemark    `xml:"Placemark"`
}

type kmlDocumentData struct {
	ProductDefinition *kmlProductDefinition `xml:"ProductDefinition"`
}

type kmlProductDefinition struct {
	Issuer            *string       `xml:"Issuer"`
	GeneratingProcess *string       `xml:"GeneratingProcess"`
	IssueTime         *string       `xml:"IssueTime"`
	ReferencedModel   kmlReferenced `xml:"ReferencedModel"`
	ForecastTimeSteps kmlTimeSteps  `xml:"ForecastTimeSteps"`
}

type kmlReferenced struct {
	Models []kmlModel `xml:"Model"`
}

type kmlModel struct {
	Name          string `xml:"name,attr"`
	ReferenceTime string `xml:"referenceTime,attr"`
}

type kmlTimeSteps struct {
	TimeSteps []string `xml:"TimeStep"`
}

type kmlPlacemark struct {
	Name         *string          `xml:"name"`
	Description  *string          `xml:"description"`
	Point        kmlPoint         `xml:"Point"`
	ExtendedData kmlPlacemarkData `xml:"ExtendedData"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemarkData struct {
	Forecasts []kmlForecast `xml:"Forecast"`
}

type kmlForecast struct {
	ElementName string `xml:"elementName,attr"`
	Value       string `xml:"value"`
}

// DecodeForecast parses one MOSMIX KML document.
//
// It fails with KindInvalidDocument when the XML is malformed or a required
// field is missing, and with KindInvalidIssueTime when the issue time is not
// a valid timestamp. Unparseable model reference times and time steps become
// 0. Elements whose value count differs from the number of time steps, or
// whose code is unknown, are left out and counted in DroppedElements.
func DecodeForecast(r io.Reader) (ForecastDocument, error) {
	var root kmlRoot
	dec := xml.NewDecoder(r)
	// MOSMIX KML is declared ISO-8859-1.
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&root); err != nil {
		return ForecastDocument{}, newDecodeError(KindInvalidDocument, err)
	}

	placemark, product, err := requireSections(root)
	if err != nil {
		return ForecastDocument{}, err
	}

	issueTime, err := parseTimestamp(*product.IssueTime)
	if err != nil {
		return ForecastDocument{}, newDecodeError(KindInvalidIssueTime, err)
	}

	models := make([]ReferenceModel, 0, len(product.ReferencedModel.Models))
	for _, m := range product.ReferencedModel.Models {
		models = append(models, ReferenceModel{
			Name:          m.Name,
			ReferenceTime: parseTimestampOrZero(m.ReferenceTime),
		})
	}

	series, dropped := buildSeries(product.ForecastTimeSteps.TimeSteps, placemark.ExtendedData.Forecasts)

	return ForecastDocument{
		Name:              *placemark.Name,
		Description:       *placemark.Description,
		Issuer:            *product.Issuer,
		GeneratingProcess: *product.GeneratingProcess,
		IssueTime:         issueTime,
		ReferenceModels:   models,
		Coordinates:       strings.TrimSpace(placemark.Point.Coordinates),
		Series:            series,
		TimeStepsCount:    len(product.ForecastTimeSteps.TimeSteps),
		DroppedElements:   dropped,
	}, nil
}

// requireSections checks that every single-valued field the document needs
// is present.
func requireSections(root kmlRoot) (*kmlPlacemark, *kmlProductDefinition, error) {
	doc := root.Document
	if doc == nil || doc.ExtendedData == nil || doc.ExtendedData.ProductDefinition == nil || doc.Placemark == nil {
		return nil, nil, newDecodeError(KindInvalidDocument, errors.New("missing Document, ProductDefinition or Placemark"))
	}
	product := doc.ExtendedData.ProductDefinition
	placemark := doc.Placemark

	missing := []string{}
	for name, v := range map[string]*string{
		"Issuer":            product.Issuer,
		"GeneratingProcess": product.GeneratingProcess,
		"IssueTime":         product.IssueTime,
		"name":              placemark.Name,
		"description":       placemark.Description,
	} {
		if v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, nil, newDecodeError(KindInvalidDocument, fmt.Errorf("missing fields %s", strings.Join(missing, ", ")))
	}
	return placemark, product, nil
}

// buildSeries aligns every element with the time steps. It returns the series
// map, including TimeStepsKey, and the number of elements dropped.
func buildSeries(timeSteps []string, forecasts []kmlForecast) (map[string][]*float64, int) {
	n := len(timeSteps)
	series := make(map[string][]*float64, len(forecasts)+1)

	steps := make([]*float64, n)
	for i, ts := range timeSteps {
		v := float64(parseTimestampOrZero(ts))
		steps[i] = &v
	}
	series[TimeStepsKey] = steps

	dropped := 0
	for _, f := range forecasts {
		values := parseValues(f.Value)
		if len(values) != n {
			dropped++
			continue
		}
		key, ok := CanonicalKey(strings.TrimSpace(f.ElementName))
		if !ok {
			dropped++
			continue
		}
		series[key] = values
	}
	return series, dropped
}

// parseValues splits a whitespace separated value list. Tokens that are not
// finite numbers, such as the "-" placeholder, become nil.
func parseValues(raw string) []*float64 {
	tokens := strings.Fields(raw)
	values := make([]*float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values[i] = &v
	}
	return values
}

// timestampLayouts accepts RFC 3339 with or without seconds; DWD products
// mix both ("2023-01-01T06:00:00.000Z", "2023-01-01T06:00Z").
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// parseTimestamp returns s as epoch milliseconds.
func parseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UnixMilli(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, firstErr
}

func parseTimestampOrZero(s string) int64 {
	ms, err := parseTimestamp(s)
	if err != nil {
		return 0
	}
	return ms
}
