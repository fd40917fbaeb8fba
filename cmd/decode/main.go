// Command decode runs one of the DWD decoders on a local file and prints the
// normalized JSON. It uses the same domain package as the service, so the
// output matches what the API would return for the same upstream document.
//
// Usage:
//
//	go run ./cmd/decode -kind stations -in mosmix_stationskatalog.cfg
//	go run ./cmd/decode -kind forecast -in MOSMIX_L_LATEST_10865.kmz
//	go run ./cmd/decode -kind report -in 10865-BEOB.csv -out report.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/dwd-weather-api/internal/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", "", "document kind: stations, forecast, or report")
	in := fs.String("in", "", "input file path (.cfg/.txt, .kml/.kmz, or .csv)")
	out := fs.String("out", "", "output path for JSON (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -in")
	}
	if *kind == "" {
		*kind = kindFromExtension(*in)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read %s: %w", *in, err)
	}

	result, dropped, err := decode(*kind, *in, data)
	if err != nil {
		return err
	}
	if dropped > 0 {
		fmt.Fprintf(stderr, "skipped %d malformed record(s)\n", dropped)
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func decode(kind, path string, data []byte) (any, int, error) {
	switch kind {
	case domain.ResourceStations:
		return domain.DecodeStationCatalog(string(data)), 0, nil
	case domain.ResourceForecast:
		var doc domain.ForecastDocument
		var err error
		if strings.EqualFold(filepath.Ext(path), ".kmz") {
			doc, err = domain.DecodeKMZ(data)
		} else {
			doc, err = domain.DecodeForecast(strings.NewReader(string(data)))
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode forecast: %w", err)
		}
		return doc, doc.DroppedElements, nil
	case domain.ResourceReport:
		report, err := domain.DecodeWeatherReport(strings.NewReader(string(data)))
		if err != nil {
			return nil, 0, fmt.Errorf("decode report: %w", err)
		}
		return report, report.DroppedRows, nil
	default:
		return nil, 0, fmt.Errorf("unknown -kind %q: want stations, forecast, or report", kind)
	}
}

// kindFromExtension guesses the document kind when -kind is omitted.
func kindFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kml", ".kmz":
		return domain.ResourceForecast
	case ".csv":
		return domain.ResourceReport
	default:
		return domain.ResourceStations
	}
}
