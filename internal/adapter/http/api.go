package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/dwd-weather-api/internal/domain"
)

const (
	stationsMaxAge = "max-age=604800"
	forecastMaxAge = "max-age=1000"
)

type apiHandler struct {
	svc    WeatherService
	logger *slog.Logger
}

func (h *apiHandler) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.svc.Stations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", stationsMaxAge)
	writeJSON(w, http.StatusOK, stations)
}

func (h *apiHandler) handleForecast(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Forecast(r.Context(), r.PathValue("station"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", forecastMaxAge)
	writeJSON(w, http.StatusOK, doc)
}

func (h *apiHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context(), r.PathValue("station"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// writeError answers 404 for upstream misses and 500 for everything else.
// Bodies carry a client-facing message, never the wrapped cause.
func (h *apiHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorResponse(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func errorResponse(err error) (int, string) {
	for _, notFound := range []error{domain.ErrNoReport, domain.ErrNoForecast, domain.ErrNoStationListing} {
		if errors.Is(err, notFound) {
			return http.StatusNotFound, notFound.Error()
		}
	}
	var de *domain.DecodeError
	if errors.As(err, &de) {
		return http.StatusInternalServerError, de.Kind.Message()
	}
	return http.StatusInternalServerError, domain.ErrInternal.Error()
}
