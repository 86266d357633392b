// Package server Recolecta
//
// Recolecta is a community recycling marketplace API: users publish posts
// with waste available for collection, collectors claim them and rate the
// publishers after the collection is completed.
//
//     Schemes: https
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
// swagger:meta
package server

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	mm "github.com/recolecta/recolecta/internal/middleware"
	"github.com/recolecta/recolecta/internal/service"
)

//go:generate swagger generate spec -t swagger -m -c . -o ../../static/swagger.json

const maxBodySize = 64 * 1024

type server struct {
	s service.Service
}

// SetupRouter setups handlers to chi router.
func SetupRouter(s service.Service, r chi.Router, timeout time.Duration) {
	r.Use(
		mm.Logger,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		mm.BodyLimiter(maxBodySize),
	)

	srv := server{
		s: s,
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/posts", srv.createPost)
		r.Get("/posts", srv.listPosts)
		r.Get("/posts/{uuid}", srv.getPost)
		r.Put("/posts/{uuid}", srv.editPost)
		r.Post("/posts/{uuid}/claim", srv.claimPost)
		r.Post("/posts/{uuid}/complete", srv.completeCollection)
		r.Post("/profiles", srv.setProfile)
		r.Get("/profiles/{id}", srv.getProfile)
		r.Get("/stats", mm.Cached(10*time.Minute, srv.getStats))
	})
}
