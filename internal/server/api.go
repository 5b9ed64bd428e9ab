package server

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/iwvelando/peso-dashboard/internal/export"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type errorResponse struct {
	Error string `json:"error"`
}

type seriesResponse struct {
	LoadID     string            `json:"loadId"`
	Start      datetime.Date     `json:"start"`
	End        datetime.Date     `json:"end"`
	Primary    []observationJSON `json:"primary"`
	Markers    []observationJSON `json:"markers"`
	Overlays   []overlayJSON     `json:"overlays"`
	MonthTicks []datetime.Date   `json:"monthTicks"`
	Range      *rangeJSON        `json:"range,omitempty"`
}

type observationJSON struct {
	Date       datetime.Date `json:"date"`
	Value      *float64      `json:"value"`
	EventLabel string        `json:"eventLabel,omitempty"`
	Category   string        `json:"category"`
}

type overlayJSON struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Unit   string      `json:"unit,omitempty"`
	Axis   string      `json:"axis"`
	Color  string      `json:"color,omitempty"`
	Points []pointJSON `json:"points,omitempty"`
}

type pointJSON struct {
	Date  datetime.Date `json:"date"`
	Value *float64      `json:"value"`
}

type rangeJSON struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// seriesQuery holds the query parameters shared by the series and export endpoints.
type seriesQuery struct {
	Start    string   `validate:"omitempty,datetime=2006-01-02"`
	End      string   `validate:"omitempty,datetime=2006-01-02"`
	Overlays []string `validate:"dive,required,max=64"`
	Format   string   `validate:"omitempty,oneof=csv xlsx"`
}

// parseQuery validates the request parameters and resolves the date range,
// defaulting to the configured view.
func (h *handler) parseQuery(r *http.Request) (seriesQuery, datetime.Date, datetime.Date, error) {
	q := r.URL.Query()
	query := seriesQuery{
		Start:  strings.TrimSpace(q.Get("start")),
		End:    strings.TrimSpace(q.Get("end")),
		Format: strings.TrimSpace(q.Get("format")),
	}
	for _, v := range q["overlay"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				query.Overlays = append(query.Overlays, id)
			}
		}
	}

	if err := h.validate.Struct(query); err != nil {
		return query, datetime.Date{}, datetime.Date{}, fmt.Errorf("invalid query: %w", err)
	}
	if len(query.Overlays) > h.opts.MaxOverlays {
		return query, datetime.Date{}, datetime.Date{}, fmt.Errorf("too many overlays: %d exceeds limit of %d", len(query.Overlays), h.opts.MaxOverlays)
	}

	from, to := h.opts.ViewStart, h.opts.ViewEnd
	if query.Start != "" {
		from = datetime.MustParseDate(query.Start)
	}
	if query.End != "" {
		to = datetime.MustParseDate(query.End)
	}
	if to.Before(from) {
		return query, datetime.Date{}, datetime.Date{}, fmt.Errorf("end %s is before start %s", to, from)
	}
	return query, from, to, nil
}

func (h *handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSeries"

	query, from, to, err := h.parseQuery(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	snap, err := h.store.Get(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, fmt.Sprintf("data unavailable: %v", err), op)
		return
	}

	overlays := make([]overlayJSON, 0, len(query.Overlays))
	for _, id := range query.Overlays {
		aux, ok := snap.Overlay(id)
		if !ok {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("unknown overlay %q", id), op)
			return
		}
		overlays = append(overlays, newOverlayJSON(aux, series.FilterPoints(aux.Points, from, to)))
	}

	rows := series.Filter(snap.Primary, from, to)
	resp := seriesResponse{
		LoadID:     snap.ID.String(),
		Start:      from,
		End:        to,
		Primary:    observations(rows),
		Markers:    observations(series.Markers(rows)),
		Overlays:   overlays,
		MonthTicks: series.MonthTicks(from, to),
	}
	if lo, hi, ok := series.Range(rows); ok {
		resp.Range = &rangeJSON{Min: lo, Max: hi}
	}

	render.JSON(w, r, resp)
}

func (h *handler) handleOverlays(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Get(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, fmt.Sprintf("data unavailable: %v", err), "server.handleOverlays")
		return
	}

	available := snap.Overlays()
	resp := make([]overlayJSON, 0, len(available))
	for _, aux := range available {
		resp = append(resp, newOverlayJSON(aux, nil))
	}
	render.JSON(w, r, resp)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	query, from, to, err := h.parseQuery(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	snap, err := h.store.Get(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, fmt.Sprintf("data unavailable: %v", err), op)
		return
	}

	format := query.Format
	if format == "" {
		format = constants.OutputFormatCSV
	}

	// Render fully before writing so a failure never yields a truncated file.
	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	switch format {
	case constants.OutputFormatXLSX:
		contentType = xlsxContentType
		err = export.WriteXLSX(&buf, snap, from, to)
	default:
		err = export.WriteCSV(&buf, snap, from, to)
	}
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to export: %v", err), op)
		return
	}

	filename := fmt.Sprintf("usd-cop_%s_%s.%s", from, to, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	reservation := h.limiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
		h.respondErrorWithOp(w, r, http.StatusTooManyRequests, "cache invalidation rate limit exceeded", "server.handleInvalidate")
		return
	}

	h.store.Invalidate()
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "invalidated"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version": h.opts.Version,
	})
}

func observations(rows []series.PriceObservation) []observationJSON {
	out := make([]observationJSON, len(rows))
	for i, row := range rows {
		out[i] = observationJSON{
			Date:       row.Date,
			Value:      nullable(row.Value),
			EventLabel: row.EventLabel,
			Category:   row.Category,
		}
	}
	return out
}

func newOverlayJSON(aux series.AuxiliarySeries, points []series.Point) overlayJSON {
	out := overlayJSON{
		ID:    aux.ID,
		Label: aux.Label,
		Unit:  aux.Unit,
		Axis:  aux.Axis,
		Color: aux.Color,
	}
	if points != nil {
		out.Points = make([]pointJSON, len(points))
		for i, p := range points {
			out.Points[i] = pointJSON{Date: p.Date, Value: nullable(p.Value)}
		}
	}
	return out
}

// nullable maps an absent value to JSON null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
