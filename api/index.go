package handler

import (
	"concierge/config"
	"concierge/di"
	"concierge/shared/logger"
	"net/http"
	"sync"
)

var (
	app  http.Handler
	once sync.Once
)

// Handler is the serverless entrypoint. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.Setup(config.Get())

		app = di.InitializeService().Adaptor()
	})

	app.ServeHTTP(w, r)
}
