package domain

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
)

// OpenKMZ opens the KML document stored as the first entry of a KMZ archive.
// The caller must close the returned reader.
func OpenKMZ(data []byte) (io.ReadCloser, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newDecodeError(KindBadZipFile, err)
	}
	if len(archive.File) == 0 {
		return nil, newDecodeError(KindNoZipEntry, errors.New("archive is empty"))
	}
	entry, err := archive.File[0].Open()
	if err != nil {
		return nil, newDecodeError(KindNoZipEntry, err)
	}
	return entry, nil
}

// DecodeKMZ extracts and decodes a zipped MOSMIX forecast.
func DecodeKMZ(data []byte) (ForecastDocument, error) {
	entry, err := OpenKMZ(data)
	if err != nil {
		return ForecastDocument{}, err
	}
	defer entry.Close()
	return DecodeForecast(entry)
}
