package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Tasks    *service.TaskService
	Metadata *service.MetadataService
	// Pinger reports task store health for /health (optional).
	Pinger core.Pinger
	// Configuration
	BaseURL string // Base URL used to build status callback URLs
	DocsURL string // Where requests without parameters are redirected
	Sync    bool   // Process requests inline instead of dispatching tasks
	Logger  *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &apiHandlers{
		tasks:    services.Tasks,
		metadata: services.Metadata,
		pinger:   services.Pinger,
		baseURL:  strings.TrimRight(services.BaseURL, "/"),
		docsURL:  services.DocsURL,
		sync:     services.Sync,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", http.HandlerFunc(h.handleRoot))
	mux.Handle("GET /status", http.HandlerFunc(h.handleStatus))
	mux.Handle("GET /status/html", http.HandlerFunc(h.handleStatusHTML))
	mux.Handle("GET /health", http.HandlerFunc(h.handleHealth))
	mux.Handle("HEAD /health", http.HandlerFunc(h.handleHealth))

	return mux
}

// apiHandlers carries the dependencies shared by all endpoint handlers.
type apiHandlers struct {
	tasks    *service.TaskService
	metadata *service.MetadataService
	pinger   core.Pinger
	baseURL  string
	docsURL  string
	sync     bool
	logger   *slog.Logger
}

// statusCallbackURL builds the polling URL returned to clients.
func (h *apiHandlers) statusCallbackURL(taskID string, html bool) string {
	url := h.baseURL + "/status"
	if html {
		url += "/html"
	}
	return url + "?task-id=" + taskID
}
