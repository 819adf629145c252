package api

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/phrazzld/promptlab/internal/collector"
	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/phrazzld/promptlab/internal/generation"
	"github.com/phrazzld/promptlab/internal/platform/logger"
)

//go:embed templates/page.html
var pageTemplateText string

// pageData is the view model of the control panel.
type pageData struct {
	Persona           string
	Prompt            string
	PromptPlaceholder string
	Temperature       float64
	MinTemperature    float64
	MaxTemperature    float64
	TemperatureStep   float64
	Model             string

	Generated  bool
	Result     string
	ResultHTML template.HTML
	IsError    bool
	PersonaSet bool

	FormError string
}

// PageHandler renders the HTML control panel.
type PageHandler struct {
	gateway   Gateway
	collector *collector.Collector
	tmpl      *template.Template
	markdown  *markdownRenderer
}

// NewPageHandler parses the embedded page template.
func NewPageHandler(gateway Gateway, c *collector.Collector) (*PageHandler, error) {
	tmpl, err := template.New("page").Parse(pageTemplateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &PageHandler{
		gateway:   gateway,
		collector: c,
		tmpl:      tmpl,
		markdown:  newMarkdownRenderer(),
	}, nil
}

// Show handles GET / requests with the default inputs.
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	d := h.collector.Defaults()
	data := h.baseData()
	data.Persona = d.Persona
	data.Temperature = d.Temperature

	h.render(w, r, http.StatusOK, data)
}

// Submit handles POST / requests. The gateway is consulted only when the
// question field is non-empty. Replies are rendered as markdown; error results
// are shown as plain text.
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := h.baseData()
		data.FormError = "The form could not be read."
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	in, err := collector.FromForm(r.PostForm)
	if err != nil {
		data := h.baseData()
		data.Persona = r.PostForm.Get("persona")
		data.Prompt = r.PostForm.Get("prompt")
		data.Temperature = h.collector.Defaults().Temperature
		data.FormError = "Temperature must be a number between 0 and 1."
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	req := h.collector.Collect(in)

	data := h.baseData()
	data.Persona = req.Persona
	data.Prompt = req.Prompt
	data.Temperature = req.Temperature
	data.PersonaSet = req.Persona != ""

	if !req.IsEmpty() {
		data.Result = h.gateway.Generate(r.Context(), req)
		data.Generated = true
		data.IsError = generation.IsErrorResult(data.Result)
		if !data.IsError {
			html, err := h.markdown.Render(data.Result)
			if err != nil {
				logger.FromContext(r.Context()).WarnContext(r.Context(),
					"falling back to plain text result", "error", err)
			} else {
				data.ResultHTML = html
			}
		}
	}

	h.render(w, r, http.StatusOK, data)
}

func (h *PageHandler) baseData() pageData {
	return pageData{
		PromptPlaceholder: domain.DefaultPromptPlaceholder,
		MinTemperature:    domain.MinTemperature,
		MaxTemperature:    domain.MaxTemperature,
		TemperatureStep:   domain.TemperatureStep,
		Model:             domain.ModelName,
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "failed to write page", "error", err)
	}
}
