package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/leaderline/pkg/buildinfo"
	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/errors"
	"github.com/matzehuels/leaderline/pkg/pipeline"
)

// PlaceRequest is the body of POST /v1/placements.
type PlaceRequest struct {
	Chart   *chart.Chart     `json:"chart"`
	Options pipeline.Options `json:"options"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req PlaceRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Chart == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request has no chart"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	opts := req.Options
	opts.Logger = s.logger.With("request_id", RequestID(ctx))
	p, hit, err := s.runner.PlaceWithCacheInfo(ctx, req.Chart, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := chart.MarshalPlacement(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var p chart.Placement
	if err := s.decode(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	opts := pipeline.Options{
		Formats:    []string{format},
		Style:      q.Get("style"),
		Background: q.Get("background"),
		Logger:     s.logger.With("request_id", RequestID(ctx)),
	}
	if v := q.Get("boxes"); v != "" {
		boxes, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid boxes value %q", v))
			return
		}
		opts.ShowBoxes = boxes
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, &p, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Cache", cacheStatus(hit))
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// decode reads a size-limited JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
