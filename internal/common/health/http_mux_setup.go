package health

import (
	"net/http"
)

func SetupHttpMux(mux *http.ServeMux, checker Checker, service string) {
	handler := NewHealthCheckHttpHandler(checker, service)
	mux.Handle("/health", handler)
}
