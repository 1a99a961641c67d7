package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/infrastructure/config"
)

// principal is the authenticated caller and the modes it may work in
type principal struct {
	user  string
	modes map[entities.Mode]struct{}
}

func (p principal) canUse(mode entities.Mode) bool {
	_, ok := p.modes[mode]
	return ok
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFrom(ctx context.Context) principal {
	p, _ := ctx.Value(principalKey{}).(principal)
	return p
}

// authorizer maps bearer tokens to users. With no users configured every
// request runs as an anonymous user allowed in every mode.
type authorizer struct {
	enabled bool
	tokens  map[string]principal
}

func newAuthorizer(cfg config.AuthConfig) (*authorizer, error) {
	tokens := make(map[string]principal, len(cfg.Users))
	for _, u := range cfg.Users {
		p := principal{user: u.Name, modes: make(map[entities.Mode]struct{}, len(u.Modes))}
		for _, raw := range u.Modes {
			mode, err := entities.ParseMode(strings.TrimSpace(raw))
			if err != nil {
				return nil, err
			}
			p.modes[mode] = struct{}{}
		}
		tokens[u.Token] = p
	}
	return &authorizer{enabled: len(tokens) > 0, tokens: tokens}, nil
}

func (a *authorizer) authenticate(r *http.Request) (principal, int, string) {
	if !a.enabled {
		return principal{
			user:  "anonymous",
			modes: map[entities.Mode]struct{}{entities.ModeDC: {}, entities.ModeBackOffice: {}},
		}, http.StatusOK, ""
	}
	token := bearerToken(r)
	if token == "" {
		return principal{}, http.StatusUnauthorized, "missing bearer token"
	}
	p, ok := a.tokens[token]
	if !ok {
		return principal{}, http.StatusUnauthorized, "invalid token"
	}
	return p, http.StatusOK, ""
}

func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	return strings.TrimSpace(r.Header.Get("X-ITAM-Token"))
}

// requireAuth rejects requests without a known token
func (a *authorizer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, status, msg := a.authenticate(r)
		if status != http.StatusOK {
			writeError(w, status, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}

// modeHandler is a handler bound to the mode of the request path
type modeHandler func(w http.ResponseWriter, r *http.Request, mode entities.Mode)

// inMode resolves the {mode} path value and checks the caller may use it
func inMode(h modeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := entities.ParseMode(r.PathValue("mode"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if !principalFrom(r.Context()).canUse(mode) {
			writeError(w, http.StatusForbidden, "no access to "+string(mode)+" mode")
			return
		}
		h(w, r, mode)
	}
}
