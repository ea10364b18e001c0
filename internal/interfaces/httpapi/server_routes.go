package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.Healthz)
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerStandingsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /leagues", handler.ListLeagues)
	mux.HandleFunc("GET /standings", handler.GetStandings)
}

func registerScrapeRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /scrape", handler.Scrape)
}
