package web

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karvembu/tellerops/internal/domain"
	"github.com/karvembu/tellerops/internal/forms"
)

// Metrics
var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teller_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "teller_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// page is the data handed to every template. Form holds the submitted form
// so failed validation re-renders the entered values; Flash carries a
// form-wide message that blames no particular field.
type page struct {
	Title  string
	User   *domain.User
	Form   any
	Errors forms.Errors
	Flash  string
}

func (h *Handler) render(w http.ResponseWriter, code int, name, method, endpoint string, data page) {
	httpReqTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("template render failed", "template", name, "error", err)
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target, method, endpoint string) {
	httpReqTotal.WithLabelValues(method, endpoint, strconv.Itoa(http.StatusSeeOther)).Inc()
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// failurePage is the generic response for persistence failures the user
// cannot correct.
func (h *Handler) failurePage(w http.ResponseWriter, method, endpoint string) {
	h.render(w, http.StatusInternalServerError, "error.html", method, endpoint, page{Title: "Error"})
}
