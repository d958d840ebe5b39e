package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dshills/steelquote/internal/analyze"
	"github.com/dshills/steelquote/internal/cache"
	"github.com/dshills/steelquote/internal/document"
	"github.com/dshills/steelquote/internal/intake"
	"github.com/dshills/steelquote/internal/rates"
	"github.com/dshills/steelquote/internal/render"
	"github.com/dshills/steelquote/internal/report"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Details []intake.ValidationError `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondAPIError(w, status, &apiError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, status int, e *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiResponse{Success: false, Error: e}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondReport writes a report in the format named by the "format" query
// parameter: json (default), md or text.
func respondReport(w http.ResponseWriter, r *http.Request, rep *report.Report) {
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		respondJSON(w, http.StatusOK, rep)
	case "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, render.Markdown(rep))
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, render.Text(rep))
	default:
		respondError(w, http.StatusBadRequest, "invalid_format", fmt.Sprintf("unknown format: %q", format))
	}
}

// requestError carries the HTTP status for a rejected request body.
type requestError struct {
	status int
	code   string
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{http.StatusBadRequest, "invalid_request", fmt.Sprintf(format, args...)}
}

func respondRequestError(w http.ResponseWriter, err error) {
	var re *requestError
	if errors.As(err, &re) {
		respondError(w, re.status, re.code, re.msg)
		return
	}
	if errors.Is(err, document.ErrTextUnavailable) {
		respondError(w, http.StatusUnprocessableEntity, "text_unavailable", "could not analyze document: "+err.Error())
		return
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		respondError(w, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("request body exceeds %d bytes", mbe.Limit))
		return
	}
	slog.Error("failed to read request", "error", err)
	respondError(w, http.StatusInternalServerError, "internal_error", "failed to read request")
}

// quoteRequest is the JSON body accepted by the analyze and quote
// endpoints. Analyze ignores Options and RateCard.
type quoteRequest struct {
	Text     string         `json:"text,omitempty"`
	Document string         `json:"document,omitempty"`
	Options  intake.Options `json:"options"`
	RateCard string         `json:"rate_card,omitempty"`
}

// parsedRequest is a request body after document acquisition. Doc is nil
// when no text or file was supplied.
type parsedRequest struct {
	Doc      *document.Document
	Options  intake.Options
	RateCard string
}

// readRequest accepts a JSON body, a multipart upload with a "file" part
// and optional "text", "options" and "rate_card" fields, or a raw text
// body.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (*parsedRequest, error) {
	if s.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	switch mediaType {
	case "application/json":
		var req quoteRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return nil, err
			}
			return nil, badRequest("invalid JSON body: %v", err)
		}
		p := &parsedRequest{Options: req.Options, RateCard: req.RateCard}
		if req.Text != "" {
			p.Doc = document.FromText(nameOr(req.Document, "pasted"), req.Text)
		}
		return p, nil

	case "multipart/form-data":
		return s.readMultipart(r)

	default:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		p := &parsedRequest{}
		if len(bytes.TrimSpace(data)) > 0 {
			p.Doc = document.FromText("body", string(data))
		}
		return p, nil
	}
}

func (s *Server) readMultipart(r *http.Request) (*parsedRequest, error) {
	maxMemory := s.config.MaxBodyBytes
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		return nil, badRequest("invalid multipart body: %v", err)
	}

	p := &parsedRequest{RateCard: r.FormValue("rate_card")}
	if raw := r.FormValue("options"); raw != "" {
		opts, err := intake.ParseOptions([]byte(raw))
		if err != nil {
			return nil, badRequest("invalid options: %v", err)
		}
		p.Options = opts
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		if text := r.FormValue("text"); text != "" {
			p.Doc = document.FromText("pasted", text)
		}
		return p, nil
	case err != nil:
		return nil, badRequest("invalid file part: %v", err)
	}
	defer file.Close()

	format, ok := document.FormatOf(header.Filename)
	if !ok {
		return nil, fmt.Errorf("unsupported file %q: %w", header.Filename, document.ErrTextUnavailable)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse(r.Context(), header.Filename, format, data, "")
	if err != nil {
		return nil, err
	}
	p.Doc = doc
	return p, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func inputFor(doc *document.Document) report.Input {
	if doc == nil {
		return report.Input{}
	}
	return report.Input{Document: doc.Name, DocumentHash: doc.Hash, Pages: doc.Pages}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.cache.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			slog.Warn("cache not ready", "error", err)
			respondError(w, http.StatusServiceUnavailable, "not_ready", "cache unavailable")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Analysis and quote handlers

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.readRequest(w, r)
	if err != nil {
		respondRequestError(w, err)
		return
	}

	var text string
	if req.Doc != nil {
		text = req.Doc.Raw
	}
	rep := report.Analysis(s.version, inputFor(req.Doc), analyze.Analyze(text))
	if s.config.Redact {
		rep.Redact()
	}
	respondReport(w, r, rep)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, err := s.readRequest(w, r)
	if err != nil {
		respondRequestError(w, err)
		return
	}

	if errs := intake.Validate(req.Options); len(errs) > 0 {
		respondAPIError(w, http.StatusUnprocessableEntity, &apiError{
			Code:    "invalid_options",
			Message: intake.Join(errs),
			Details: errs,
		})
		return
	}

	card := s.card
	if req.RateCard != "" {
		c, err := rates.LoadBuiltin(req.RateCard)
		if err != nil {
			respondError(w, http.StatusBadRequest, "unknown_rate_card", fmt.Sprintf("unknown rate card: %q", req.RateCard))
			return
		}
		card = c
	}

	key := s.quoteKey(req, card)
	if rep := s.cachedReport(r, key); rep != nil {
		w.Header().Set("X-Cache", "HIT")
		respondReport(w, r, rep)
		return
	}

	doc := req.Doc
	if doc == nil && req.Options.Requirements != nil {
		doc = document.FromText("options", *req.Options.Requirements)
	}
	var analysis *analyze.Result
	if doc != nil {
		analysis = analyze.Analyze(doc.Raw)
	}
	rep := report.Build(s.version, report.Request{
		Input:    inputFor(doc),
		Analysis: analysis,
		Options:  req.Options,
		Card:     card,
	})
	if s.config.Redact {
		rep.Redact()
	}

	s.storeReport(r, key, rep)
	w.Header().Set("X-Cache", "MISS")
	respondReport(w, r, rep)
}

// quoteKey identifies a quote by document content, options and rate card.
func (s *Server) quoteKey(req *parsedRequest, card *rates.Card) string {
	in := inputFor(req.Doc)
	canonical, _ := json.Marshal(struct {
		Version  string         `json:"version"`
		Document string         `json:"document"`
		Hash     string         `json:"hash"`
		Options  intake.Options `json:"options"`
		RateCard string         `json:"rate_card"`
		CardVer  int            `json:"rate_card_version"`
	}{s.version, in.Document, in.DocumentHash, req.Options, card.Name, card.Version})
	return cache.Key("quote", canonical)
}

func (s *Server) cachedReport(r *http.Request, key string) *report.Report {
	if s.cache == nil {
		return nil
	}
	data, ok, err := s.cache.Get(r.Context(), key)
	if err != nil {
		slog.Warn("cache get failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		slog.Warn("discarding unreadable cache entry", "key", key, "error", err)
		return nil
	}
	return &rep
}

func (s *Server) storeReport(r *http.Request, key string, rep *report.Report) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(rep)
	if err != nil {
		slog.Error("failed to encode report for cache", "error", err)
		return
	}
	if err := s.cache.Set(r.Context(), key, data); err != nil {
		slog.Warn("cache set failed", "error", err)
	}
}

// Rate card handlers

func (s *Server) handleListRates(w http.ResponseWriter, r *http.Request) {
	names, err := rates.List()
	if err != nil {
		slog.Error("failed to list rate cards", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list rate cards")
		return
	}
	cards := make([]*rates.Card, 0, len(names))
	for _, name := range names {
		c, err := rates.LoadBuiltin(name)
		if err != nil {
			slog.Error("failed to load rate card", "name", name, "error", err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load rate cards")
			return
		}
		cards = append(cards, c)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"default": s.card.Name,
		"cards":   cards,
	})
}

func (s *Server) handleGetRate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := rates.LoadBuiltin(name)
	if err != nil {
		respondError(w, http.StatusNotFound, "rate_card_not_found", fmt.Sprintf("rate card not found: %q", name))
		return
	}
	respondJSON(w, http.StatusOK, c)
}
