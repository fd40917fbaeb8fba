// Package domain decodes Deutscher Wetterdienst (DWD) open-data products into
// normalized records.
//
// # Data Sources
//
// Three upstream products are supported, each with its own text format:
//
//   - The MOSMIX station catalog, a plain-text file made of tables separated
//     by blank lines. See [DecodeStationCatalog].
//   - MOSMIX_L single-station forecasts, a KML document packed as the only
//     entry of a KMZ (zip) archive. See [OpenKMZ] and [DecodeForecast].
//   - POI weather reports ("BEOB"), a semicolon-delimited table of hourly
//     observations. See [DecodeWeatherReport].
//
// # DWD Conventions
//
// Undefined values:
//
//	A token made only of '-' characters ("-", "---", "----") means the value
//	was intentionally not reported. Recognized by [IsUndefined].
//
// Station catalog layouts:
//
//	Older catalogs are whitespace tokenized with six columns:
//	  id  icao  name  lat  lon  elevation
//	Newer catalogs are fixed width. The third line of each table is a rule
//	line ("===== ===== ..."); the length of each rule segment is the width
//	of the column beneath it, and columns are separated by one blank:
//	  clu  CofX  id  ICAO  name  nb.  el.  elev  Hmod-H  type
//
// Forecast elements:
//
//	Each <dwd:Forecast dwd:elementName="TTT"> carries one whitespace
//	separated value per forecast time step. Non-numeric tokens ("-") become
//	null. Element codes are renamed through a static table, see [CanonicalKey].
//
// Report timestamps:
//
//	Column 0 is "dd.mm.yy", column 1 is "HH:MM", both UTC. Decimal values use
//	a comma separator ("12,5").
//
// # Errors
//
// A [*DecodeError] is returned when the document itself has the wrong shape.
// A single bad row, element or field never fails a decode; it is dropped or
// defaulted and counted in the result.
package domain
