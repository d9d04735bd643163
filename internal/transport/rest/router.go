package rest

import (
	"net/http"

	"cuentas-server/internal/config"
	"cuentas-server/internal/domain"
	"cuentas-server/internal/transport/rest/middleware"
)

type RouterDeps struct {
	Auth *AuthHandler
	User *UserHandler

	AuthService domain.AuthService
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.RequestID())
	globalMw.Use(middleware.CORS(cfg))

	authStack := middleware.New()
	authStack.Use(middleware.Auth(deps.AuthService))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/users/register", deps.User.Register)
	mux.HandleFunc("POST /api/login", deps.Auth.Login)

	mux.Handle("GET /api/users", authStack.Then(http.HandlerFunc(deps.User.Index)))
	mux.Handle("GET /api/users/{id}", authStack.Then(http.HandlerFunc(deps.User.Show)))
	mux.Handle("PUT /api/users/{id}", authStack.Then(http.HandlerFunc(deps.User.Update)))
	mux.Handle("DELETE /api/users/{id}", authStack.Then(http.HandlerFunc(deps.User.Destroy)))
	mux.Handle("PUT /api/users/{id}/password", authStack.Then(http.HandlerFunc(deps.User.UpdatePassword)))

	return globalMw.Apply(mux)
}
