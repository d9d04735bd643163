package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cuentas-server/internal/domain"
)

type identityKey struct{}

// Auth guards a route with bearer-token verification. Verification hits the
// credential store, so tokens for deleted accounts and tokens issued before
// the account's last password change are rejected here.
func Auth(svc domain.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				unauthorized(w, "Token no proporcionado")
				return
			}

			identity, err := svc.Verify(r.Context(), tokenString)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenRevoked):
					unauthorized(w, "El token ha sido revocado. Vuelve a iniciar sesión.")
				case errors.Is(err, domain.ErrUserNotFound):
					unauthorized(w, "Usuario no encontrado")
				default:
					unauthorized(w, "Token inválido o expirado")
				}
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*domain.Identity)
	return identity, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
