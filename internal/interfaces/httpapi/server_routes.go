package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerOddsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/odds/resolve", handler.ResolveOdds)
	mux.HandleFunc("POST /v1/odds/resolve/batch", handler.ResolveOddsBatch)
}
