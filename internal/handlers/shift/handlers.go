package shift

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/lookup"
	"github.com/msv-stihl/limpeza/internal/pkg/response"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type pageData struct {
	Shifts []string
	View   lookup.View
}

type Handler struct {
	service *lookup.Service
	shifts  []string
	logger  *zap.Logger
}

func NewHandler(service *lookup.Service, shifts []string, logger *zap.Logger) *Handler {
	return &Handler{service: service, shifts: shifts, logger: logger}
}

// FormPage renders the empty form.
func (h *Handler) FormPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, lookup.View{Rows: [][]string{}})
}

// Submit handles the form post: one fetch, then the resolved page.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	view := h.service.Lookup(r.Context(), r.PostFormValue("turno"), nil)
	h.render(w, view)
}

// MissingJSON returns the resolved view for the shift in the URL.
func (h *Handler) MissingJSON(w http.ResponseWriter, r *http.Request) {
	view := h.service.Lookup(r.Context(), chi.URLParam(r, "shift"), nil)
	response.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) render(w http.ResponseWriter, view lookup.View) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Shifts: h.shifts, View: view}); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
