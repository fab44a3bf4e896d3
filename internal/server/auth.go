package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/tonelink/internal/models"
)

type contextKey string

const profileContextKey contextKey = "profile"

// authenticate resolves the bearer token to its owning profile and stores it
// on the request context. Unknown or missing tokens answer 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		profile, err := s.profiles.GetByAPIToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerProfile returns the authenticated profile stored by [Server.authenticate].
func callerProfile(r *http.Request) (*models.Profile, bool) {
	profile, ok := r.Context().Value(profileContextKey).(*models.Profile)
	return profile, ok
}

// ownProfile returns the caller's profile, enforcing that the {id} route
// parameter (when present) names that same profile. Acting on someone else's
// profile answers 403.
func (s *Server) ownProfile(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	profile, ok := callerProfile(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, msgUnauthorized)
		return nil, false
	}

	if id := chi.URLParam(r, "id"); id != "" && id != profile.ID() {
		respondError(w, http.StatusForbidden, msgForbidden)
		return nil, false
	}

	return profile, true
}

// ownLink loads the link named by the {id} route parameter and enforces that
// the caller owns it.
func (s *Server) ownLink(w http.ResponseWriter, r *http.Request) (*models.Link, bool) {
	profile, ok := callerProfile(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, msgUnauthorized)
		return nil, false
	}

	link, err := s.links.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondRepoError(w, err)
		return nil, false
	}

	if link.ProfileID() != profile.ID() {
		respondError(w, http.StatusForbidden, msgForbidden)
		return nil, false
	}

	return link, true
}
