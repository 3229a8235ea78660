package httpapi

import (
	"net/http"
	"time"
)

// NewServer monta o servidor HTTP público com timeouts conservadores.
// O /ws precisa de WriteTimeout zero; conexões longas ficam por conta do Hub.
func NewServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
