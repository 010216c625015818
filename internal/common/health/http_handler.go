package health

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Status is the body returned by a passing health check.
type Status struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Lang    string `json:"lang"`
}

type HealthCheckHttpHandler struct {
	checker Checker
	service string
}

func NewHealthCheckHttpHandler(checker Checker, service string) *HealthCheckHttpHandler {
	return &HealthCheckHttpHandler{
		checker: checker,
		service: service,
	}
}

func (h *HealthCheckHttpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h.checker.Check()
	if err == nil {
		log.Debug("Health check passed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err = json.NewEncoder(w).Encode(Status{Status: "ok", Service: h.service, Lang: "go"})
		if err != nil {
			log.Errorf("Failed to write health check response: %v", err)
		}
	} else {
		log.Warnf("Health check failed: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, err = w.Write([]byte(err.Error()))
		if err != nil {
			log.Errorf("Failed to write health check response: %v", err)
		}
	}
}
