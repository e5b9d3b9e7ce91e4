package main

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/AdamBeresnev/knockout-fixture/internal/httputil"
	"github.com/AdamBeresnev/knockout-fixture/internal/render"
	"github.com/AdamBeresnev/knockout-fixture/internal/service"
	"github.com/AdamBeresnev/knockout-fixture/views"
)

const (
	returnJSON = "json"
	returnYAML = "yaml"
	returnXLSX = "xlsx"
	returnPDF  = "pdf"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypeYAML = "application/yaml; charset=utf-8"
)

type createTournamentRequest struct {
	Name         string                     `json:"name"`
	Participants []service.ParticipantInput `json:"participants"`
	ReturnType   string                     `json:"returnType"`
	PDFTitle     string                     `json:"pdfTitle"`
}

type tournamentEnvelope struct {
	Success bool           `json:"success" yaml:"success"`
	Message string         `json:"message" yaml:"message"`
	Data    tournamentData `json:"data" yaml:"data"`
}

type tournamentData struct {
	Tournament render.TournamentView `json:"tournament" yaml:"tournament"`
}

type healthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Success:     true,
		Message:     "Knockout fixture service is running",
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Version:     s.version,
		Environment: s.cfg.Environment,
	})
}

type endpointDoc struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

func (s *server) handleAPIDocs(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Knockout fixture API",
		"version": s.version,
		"limits": map[string]any{
			"minParticipants":    2,
			"maxParticipants":    s.cfg.MaxParticipants,
			"maxNameLength":      service.MaxNameLength,
			"maxPdfTitleLength":  service.MaxPDFTitle,
			"maxPdfParticipants": render.MaxPDFParticipants,
			"returnTypes":        []string{returnJSON, returnYAML, returnXLSX, returnPDF},
			"defaultReturnType":  returnJSON,
		},
		"endpoints": []endpointDoc{
			{http.MethodGet, "/health", "Service health"},
			{http.MethodGet, "/api", "This document"},
			{http.MethodPost, "/api/tournaments", "Generate a tournament from {name?, participants, returnType?, pdfTitle?}"},
			{http.MethodPost, "/api/tournaments/quick-pdf", "Generate a tournament from {name?, participants, pdfTitle?} and download its PDF bracket"},
			{http.MethodGet, "/metrics", "Prometheus metrics"},
		},
	})
}

func (s *server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	returnType := strings.ToLower(strings.TrimSpace(req.ReturnType))
	if returnType == "" {
		returnType = returnJSON
	}
	switch returnType {
	case returnJSON, returnYAML, returnXLSX, returnPDF:
	default:
		httputil.WriteError(w, r, bracket.InvalidInput("returnType must be one of json, yaml, xlsx, pdf"))
		return
	}

	pdfTitle, err := service.NormalizePDFTitle(req.PDFTitle)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tournament, err := s.fixtures.CreateFixture(r.Context(), req.Name, req.Participants)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	switch returnType {
	case returnXLSX:
		s.writeFile(w, r, tournament, returnXLSX, "")
	case returnPDF:
		s.writeFile(w, r, tournament, returnPDF, pdfTitle)
	default:
		envelope := tournamentEnvelope{
			Success: true,
			Message: "Tournament created successfully",
			Data:    tournamentData{Tournament: render.NewView(tournament)},
		}
		if returnType == returnYAML {
			var buf bytes.Buffer
			if err := render.WriteYAML(&buf, envelope); err != nil {
				httputil.InternalServerError(w, "failed to encode yaml", err)
				return
			}
			w.Header().Set("Content-Type", contentTypeYAML)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(buf.Bytes())
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, envelope)
	}
}

func (s *server) handleQuickPDF(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	pdfTitle, err := service.NormalizePDFTitle(req.PDFTitle)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tournament, err := s.fixtures.CreateFixture(r.Context(), req.Name, req.Participants)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	s.writeFile(w, r, tournament, returnPDF, pdfTitle)
}

// Files are rendered to memory first so a render failure can still be
// reported as a JSON error. title only applies to PDFs.
func (s *server) writeFile(w http.ResponseWriter, r *http.Request, t *bracket.Tournament, kind, title string) {
	var buf bytes.Buffer
	var err error
	contentType := contentTypePDF
	if kind == returnXLSX {
		contentType = contentTypeXLSX
		err = render.WriteXLSX(&buf, t)
	} else {
		err = render.WritePDF(&buf, t, title)
	}
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.Attachment(w, contentType, slug(t.Name)+"."+kind)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := views.Render(w, r, http.StatusOK, views.FormPage(views.FormData{MaxParticipants: s.cfg.MaxParticipants})); err != nil {
		httputil.InternalServerError(w, "failed to render form", err)
	}
}

func (s *server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	form := views.FormData{
		Name:            r.Form.Get("name"),
		Participants:    r.Form.Get("participants"),
		MaxParticipants: s.cfg.MaxParticipants,
	}

	tournament, err := s.fixtures.CreateFixture(r.Context(), form.Name, service.ParseParticipantLines(form.Participants))
	if err != nil {
		if !errors.Is(err, bracket.ErrInvalidInput) {
			httputil.InternalServerError(w, "failed to create tournament", err)
			return
		}
		form.Error = err.Error()
		if err := views.Render(w, r, http.StatusBadRequest, views.FormPage(form)); err != nil {
			httputil.InternalServerError(w, "failed to render form", err)
		}
		return
	}

	if err := views.Render(w, r, http.StatusOK, views.BracketPage(tournament)); err != nil {
		httputil.InternalServerError(w, "failed to render bracket", err)
	}
}

// slug makes a download filename out of a tournament name.
func slug(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if r < unicode.MaxASCII {
				sb.WriteRune(r)
				dash = false
				continue
			}
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "tournament"
	}
	return out
}
