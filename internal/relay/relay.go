// Package relay re-serves plain-HTTP media over the daemon's transport
// so secure pages can play it without tripping mixed-content policies.
package relay

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vklink/flix/internal/metrics"
)

// Some panels refuse non-browser user agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// RewriteURL routes a plain-HTTP media URL through the relay:
// `{relayBase}?url=<escaped>`. HTTPS and unparseable URLs pass through
// unchanged, as does everything when relayBase is empty. The caller
// keeps the original URL for the open-externally fallback, which is not
// subject to mixed-content rules.
func RewriteURL(relayBase, src string) string {
	if relayBase == "" || src == "" {
		return src
	}
	u, err := url.Parse(src)
	if err != nil || u.Scheme != "http" {
		return src
	}
	return relayBase + "?url=" + url.QueryEscape(src)
}

// Handler proxies media byte ranges from an upstream URL.
type Handler struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHandler creates a relay handler. Redirects are followed so the
// final stream host serves the bytes.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		httpClient: &http.Client{
			// No overall timeout: media streams are long-lived. Dial and
			// header latency are still bounded.
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles GET /relay?url=<source>. The Range request header is
// forwarded and Content-Length/Content-Range/Accept-Ranges are exposed
// so players can seek.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("url")
	if src == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		http.Error(w, "invalid url parameter", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, src, nil)
	if err != nil {
		http.Error(w, "invalid url parameter", http.StatusBadRequest)
		return
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "*/*")
	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		metrics.RelayRequests.WithLabelValues("error").Inc()
		// Client errors embed the full URL, which can carry provider
		// credentials; log only the host and the cause.
		cause := err
		var uerr *url.Error
		if errors.As(err, &uerr) {
			cause = uerr.Err
		}
		h.logger.Warn("relay upstream failed", "host", u.Host, "error", cause)
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	metrics.RelayRequests.WithLabelValues(statusClass(resp.StatusCode)).Inc()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	if v := resp.Header.Get("Content-Length"); v != "" {
		w.Header().Set("Content-Length", v)
	}
	if v := resp.Header.Get("Content-Range"); v != "" {
		w.Header().Set("Content-Range", v)
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// Player seeks and tab closes sever the connection mid-copy;
		// nothing to do but note it.
		h.logger.Debug("relay copy interrupted", "error", err)
	}
}

func statusClass(code int) string {
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
