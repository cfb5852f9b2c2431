package api

import "github.com/go-chi/chi/v5"

func addRoutes(r chi.Router, deps Deps) {
	r.Get("/healthz", handleHealth(deps.Logger, deps.DB))

	r.Route("/api", func(r chi.Router) {
		r.Post("/questions", handleGenerate(deps.Logger, deps.NewGenerator))

		r.Route("/battles", func(r chi.Router) {
			r.Get("/", handleListBattles(deps.Battles))
			r.Get("/stats", handleBattleStats(deps.Battles))
			r.Get("/{id}", handleGetBattle(deps.Battles))
		})
	})
}
