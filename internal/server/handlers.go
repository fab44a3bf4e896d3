package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/tonelink/internal/avatar"
	"github.com/desertthunder/tonelink/internal/colors"
	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/shared"
)

// Stable error messages for the JSON error taxonomy.
const (
	msgValidation      = "validation failed"
	msgUnauthorized    = "Unauthorized"
	msgForbidden       = "Forbidden"
	msgProfileNotFound = "Profile not found"
	msgLinkNotFound    = "Link not found"
	msgInternal        = "internal error"
)

// pageBackground is the background public pages render on; themes are
// computed against it.
const pageBackground = "#ffffff"

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondRepoError maps repository errors onto the taxonomy.
func (s *Server) respondRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, msgProfileNotFound)
	case errors.Is(err, shared.ErrLinkNotFound):
		respondError(w, http.StatusNotFound, msgLinkNotFound)
	case errors.Is(err, shared.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, msgValidation)
	default:
		s.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
	}
}

// profileJSON is the public representation of a profile.
func profileJSON(p *models.Profile) map[string]any {
	return map[string]any{
		"id":                p.ID(),
		"username":          p.Username(),
		"display_name":      p.DisplayName(),
		"brand_color":       p.BrandColor(),
		"avatar_url":        p.AvatarURL(),
		"spotify_artist_id": p.SpotifyArtistID(),
	}
}

func linkJSON(l *models.Link) map[string]any {
	return map[string]any{
		"id":        l.ID(),
		"platform":  l.Platform(),
		"url":       l.URL(),
		"position":  l.Position(),
		"followers": l.Followers(),
		"synced_at": l.SyncedAt(),
	}
}

func linksJSON(links []*models.Link) []map[string]any {
	out := make([]map[string]any, 0, len(links))
	for _, l := range links {
		out = append(out, linkJSON(l))
	}
	return out
}

// handlePublicProfile serves a profile page payload: the profile, its links
// in display order, and the computed theme.
func (s *Server) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := s.profiles.GetByUsername(username)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}

	links, err := s.links.ListByProfile(profile.ID())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"profile": profileJSON(profile),
		"links":   linksJSON(links),
		"theme":   colors.Compute(profile.BrandColor(), pageBackground),
	})
}

type profileRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	BrandColor  string `json:"brand_color"`
	AvatarURL   string `json:"avatar_url"`
	Email       string `json:"email"`
}

// handleCreateProfile registers a new profile.
//
// The avatar URL is upgraded to its high-resolution variant on the way in.
// When no avatar is supplied but an email is, a Gravatar URL is derived.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	username := shared.NormalizeUsername(req.Username)
	if !shared.ValidUsername(username) {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	if _, err := s.profiles.GetByUsername(username); err == nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	profile := models.NewProfile(0, username, req.DisplayName)
	if req.BrandColor != "" {
		if err := profile.SetBrandColor(req.BrandColor); err != nil {
			respondError(w, http.StatusBadRequest, msgValidation)
			return
		}
	}

	switch {
	case req.AvatarURL != "":
		profile.SetAvatarURL(avatar.Upgrade(req.AvatarURL))
	case req.Email != "":
		profile.SetAvatarURL(avatar.Gravatar(req.Email, avatar.TargetSize))
	}

	if err := s.profiles.Create(profile); err != nil {
		s.respondRepoError(w, err)
		return
	}

	body := profileJSON(profile)
	body["api_token"] = profile.APIToken()
	respondJSON(w, http.StatusCreated, body)
}

// handleUpdateProfile applies a partial update to the caller's own profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.ownProfile(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	if req.DisplayName != "" {
		profile.SetDisplayName(req.DisplayName)
	}
	if req.BrandColor != "" {
		if err := profile.SetBrandColor(req.BrandColor); err != nil {
			respondError(w, http.StatusBadRequest, msgValidation)
			return
		}
	}
	if req.AvatarURL != "" {
		profile.SetAvatarURL(avatar.Upgrade(req.AvatarURL))
	}

	if err := s.profiles.Update(profile); err != nil {
		s.respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profileJSON(profile))
}

// handleListLinks returns the caller's links in display order.
func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.ownProfile(w, r)
	if !ok {
		return
	}

	links, err := s.links.ListByProfile(profile.ID())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"links": linksJSON(links)})
}

type linkRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// handleCreateLink appends a link to the end of the caller's list.
func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.ownProfile(w, r)
	if !ok {
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	link := models.NewLink(0, profile.ID(), req.Platform, req.URL)
	if err := link.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	if err := s.links.Create(link); err != nil {
		s.respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, linkJSON(link))
}

// handleUpdateLink updates a link the caller owns.
func (s *Server) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	link, ok := s.ownLink(w, r)
	if !ok {
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	if req.URL != "" {
		link.SetURL(req.URL)
	}
	if err := link.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	if err := s.links.Update(link); err != nil {
		s.respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, linkJSON(link))
}

// handleDeleteLink soft-deletes a link the caller owns.
func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	link, ok := s.ownLink(w, r)
	if !ok {
		return
	}

	if err := s.links.Delete(link.ID()); err != nil {
		s.respondRepoError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleReorderLinks persists a new display order for the caller's links.
func (s *Server) handleReorderLinks(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.ownProfile(w, r)
	if !ok {
		return
	}

	var req struct {
		Order []string `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	if err := s.links.Reorder(profile.ID(), req.Order); err != nil {
		s.respondRepoError(w, err)
		return
	}

	links, err := s.links.ListByProfile(profile.ID())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"links": linksJSON(links)})
}

// handleLinkRedirect 302-redirects to a link's destination URL.
//
// When exp/sig query parameters are present the signature is verified first,
// so expired or tampered signed URLs never leak the destination.
func (s *Server) handleLinkRedirect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("sig") != "" || r.URL.Query().Get("exp") != "" {
		if err := s.verifySignature(id, r.URL.Query().Get("exp"), r.URL.Query().Get("sig")); err != nil {
			respondError(w, http.StatusForbidden, msgForbidden)
			return
		}
	}

	link, err := s.links.Get(id)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}

	http.Redirect(w, r, link.URL(), http.StatusFound)
}

// handleSignLink mints a short-lived signed redirect URL for a link.
func (s *Server) handleSignLink(w http.ResponseWriter, r *http.Request) {
	if s.config.Server.SigningSecret == "" {
		respondError(w, http.StatusServiceUnavailable, "signed links unavailable")
		return
	}

	id := chi.URLParam(r, "id")

	if _, err := s.links.Get(id); err != nil {
		s.respondRepoError(w, err)
		return
	}

	signed, expires := s.signLink(id)
	respondJSON(w, http.StatusOK, map[string]any{
		"url":        signed,
		"expires_at": expires,
	})
}

// handleSpotifySearch proxies an artist search to the DSP.
func (s *Server) handleSpotifySearch(w http.ResponseWriter, r *http.Request) {
	if s.spotify == nil {
		respondError(w, http.StatusServiceUnavailable, "search unavailable")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, msgValidation)
			return
		}
		limit = parsed
	}

	artists, err := s.spotify.SearchArtists(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("artist search failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"artists": artists})
}

// handleSpotifyConnect links a DSP artist to the caller's profile and pulls
// the artist's avatar when the profile has none.
func (s *Server) handleSpotifyConnect(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.ownProfile(w, r)
	if !ok {
		return
	}

	if s.spotify == nil {
		respondError(w, http.StatusServiceUnavailable, "connect unavailable")
		return
	}

	var req struct {
		ArtistID string `json:"artist_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ArtistID == "" {
		respondError(w, http.StatusBadRequest, msgValidation)
		return
	}

	artist, err := s.spotify.GetArtist(r.Context(), req.ArtistID)
	if err != nil {
		if errors.Is(err, shared.ErrArtistNotFound) {
			respondError(w, http.StatusBadRequest, msgValidation)
			return
		}
		s.logger.Error("artist lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	profile.SetSpotifyArtistID(artist.ID)
	if profile.AvatarURL() == "" && artist.ImageURL != "" {
		profile.SetAvatarURL(avatar.Upgrade(artist.ImageURL))
	}

	if err := s.profiles.Update(profile); err != nil {
		s.respondRepoError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"profile": profileJSON(profile),
		"artist":  artist,
	})
}

// handleBillingStatus reports the caller's subscription state, refreshing the
// local cache from the billing API when it is reachable.
func (s *Server) handleBillingStatus(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.ownProfile(w, r)
	if !ok {
		return
	}

	if s.billing != nil {
		status, err := s.billing.Status(r.Context(), profile.ID())
		if err == nil {
			if _, err := s.subscriptions.Sync(profile.ID(), *status); err != nil {
				s.logger.Warn("failed to cache billing status", "error", err)
			}
			respondJSON(w, http.StatusOK, status)
			return
		}
		s.logger.Warn("billing API unreachable, serving cached status", "error", err)
	}

	sub, err := s.subscriptions.GetByProfile(profile.ID())
	if err != nil {
		respondJSON(w, http.StatusOK, models.BillingStatus{
			Plan:   "free",
			Status: models.SubscriptionCanceled,
		})
		return
	}

	respondJSON(w, http.StatusOK, models.BillingStatus{
		Plan:             sub.Plan(),
		Status:           sub.Status(),
		Dunning:          sub.Dunning(),
		CurrentPeriodEnd: sub.CurrentPeriodEnd(),
	})
}
