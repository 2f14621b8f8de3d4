package httpx

import (
	"net/http"
	"os"
	"runtime"
	"time"
)

// Version is the API version reported by /health.
const Version = "1.0.0"

var startTime = time.Now()

type versionInfo struct {
	API string `json:"api"`
	Go  string `json:"go"`
}

type dependencyStatus struct {
	Redis string `json:"redis"`
}

type systemInfo struct {
	Platform string `json:"platform"`
	Hostname string `json:"hostname"`
}

// healthStatus is the /health response shape.
type healthStatus struct {
	Status        string           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	UptimeSeconds float64          `json:"uptime_seconds"`
	Version       versionInfo      `json:"version"`
	Dependencies  dependencyStatus `json:"dependencies"`
	System        systemInfo       `json:"system"`
}

// handleHealth reports service status, uptime, and dependency health. The
// endpoint always answers 200; a broken task store shows up in the
// dependencies section instead.
func (h *apiHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}

	redisStatus := "ok"
	if h.pinger == nil {
		redisStatus = "failed"
	} else if err := h.pinger.Ping(r.Context()); err != nil {
		h.logger.Warn("task store ping failed", "error", err)
		redisStatus = "failed"
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	WriteJSON(w, http.StatusOK, healthStatus{
		Status:        "ok",
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(startTime).Seconds(),
		Version: versionInfo{
			API: Version,
			Go:  runtime.Version(),
		},
		Dependencies: dependencyStatus{
			Redis: redisStatus,
		},
		System: systemInfo{
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
			Hostname: hostname,
		},
	})
}
