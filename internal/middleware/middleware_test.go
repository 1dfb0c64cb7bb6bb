package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "/api/media", want: "/api/media"},
		{name: "newline forging", input: "a\nb\rc", want: "a b c"},
		{name: "ansi escape", input: "\x1b[31mred", want: "[31mred"},
		{name: "null byte", input: "a\x00b", want: "ab"},
		{name: "tab kept", input: "a\tb", want: "a\tb"},
		{name: "bell stripped", input: "a\x07b", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, remote: "1.1.1.1:80", want: "10.0.0.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "10.0.0.9"}, remote: "1.1.1.1:80", want: "10.0.0.9"},
		{name: "remote addr", remote: "192.168.1.5:52000", want: "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf, logging.LevelDebug)
	defer logging.Close()

	r := mux.NewRouter()
	r.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("fine")) })
	r.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {})
	r.Use(Logger(DefaultLoggingConfig()))

	for _, path := range []string{"/ok?x=1", "/missing", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := buf.String()
	if !strings.Contains(out, "[DEBUG]") || !strings.Contains(out, "GET /ok x=1 200 4") {
		t.Errorf("missing debug line for /ok in %q", out)
	}
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "/missing - 404") {
		t.Errorf("missing warn line for /missing in %q", out)
	}
	if strings.Contains(out, "/health") {
		t.Errorf("health check was logged: %q", out)
	}
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/media/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Use(Metrics(DefaultMetricsConfig()))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/media/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/media/"+id, nil))
	}

	if got := testutil.ToFloat64(counter); got != before+3 {
		t.Errorf("HTTPRequestsTotal{/api/media/{id},418} = %v, want %v", got, before+3)
	}
}

func TestRouteTemplateUnmatched(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := routeTemplate(r); got != "unmatched" {
		t.Errorf("routeTemplate() = %q, want unmatched", got)
	}
}
