package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/desertthunder/tonelink/internal/shared"
	tu "github.com/desertthunder/tonelink/internal/testing"
)

func TestNewSpotifyService(t *testing.T) {
	t.Run("Valid Credentials", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
			"redirect_uri":  "http://localhost:9999/callback",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name Spotify, got %s", srv.Name())
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_secret": "secret"})
		if err == nil {
			t.Fatal("expected error for missing client_id")
		}
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_id": "id"})
		if err == nil {
			t.Fatal("expected error for missing client_secret")
		}
	})

	t.Run("Default Redirect URI", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		authURL := srv.GetAuthURL("state-123")
		if !strings.Contains(authURL, "localhost%3A8080%2Fcallback") {
			t.Errorf("expected default redirect in auth URL, got %s", authURL)
		}
		if !strings.Contains(authURL, "state=state-123") {
			t.Errorf("expected state parameter in auth URL, got %s", authURL)
		}
	})
}

func TestSpotifyService(t *testing.T) {
	t.Run("Requests Require Authentication", func(t *testing.T) {
		srv, _ := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})

		_, err := srv.SearchArtists(context.Background(), "maggie", 10)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Access Token Authentication", func(t *testing.T) {
		srv, _ := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})

		err := srv.Authenticate(context.Background(), map[string]string{"access_token": "token-abc"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.token == nil || srv.token.AccessToken != "token-abc" {
			t.Error("expected access token to be stored")
		}
	})

	t.Run("Empty Search Query Rejected", func(t *testing.T) {
		srv, _ := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		srv.Authenticate(context.Background(), map[string]string{"access_token": "token"})

		_, err := srv.SearchArtists(context.Background(), "", 10)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestToArtist(t *testing.T) {
	sa := SpotifyArtist{
		ID:        "artist-1",
		Name:      "Maggie",
		Genres:    []string{"indie pop"},
		Followers: followers{Total: 120000},
		Images: []SpotifyImage{
			{URL: "https://i.scdn.co/small", Width: 64, Height: 64},
			{URL: "https://i.scdn.co/large", Width: 640, Height: 640},
			{URL: "https://i.scdn.co/medium", Width: 300, Height: 300},
		},
	}

	artist := toArtist(sa)

	if artist.ID != "artist-1" || artist.Name != "Maggie" {
		t.Errorf("unexpected identity fields: %+v", artist)
	}
	if artist.Followers != 120000 {
		t.Errorf("expected 120000 followers, got %d", artist.Followers)
	}
	if artist.ImageURL != "https://i.scdn.co/large" {
		t.Errorf("expected largest image selected, got %s", artist.ImageURL)
	}

	t.Run("No Images", func(t *testing.T) {
		artist := toArtist(SpotifyArtist{ID: "a", Name: "b"})
		if artist.ImageURL != "" {
			t.Errorf("expected empty image URL, got %s", artist.ImageURL)
		}
	})
}

func TestDoRequest(t *testing.T) {
	authed := func(t *testing.T, transport http.RoundTripper) *SpotifyService {
		t.Helper()
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		srv.token = &oauth2.Token{AccessToken: "token"}
		srv.httpClient = &http.Client{Transport: transport}
		return srv
	}

	t.Run("Maps 404 To Artist Not Found", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(""))}
		srv := authed(t, tu.NewMockRoundTripper(resp, nil))

		_, err := srv.GetArtist(context.Background(), "missing")
		if !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound, got %v", err)
		}
	})

	t.Run("Maps Server Errors To API Request Failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader(""))}
		srv := authed(t, tu.NewMockRoundTripper(resp, nil))

		_, err := srv.GetArtist(context.Background(), "artist-1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Wraps Transport Errors", func(t *testing.T) {
		srv := authed(t, tu.NewMockRoundTripper(nil, errors.New("connection refused")))

		_, err := srv.GetArtist(context.Background(), "artist-1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Surfaces Body Read Failures", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}}
		srv := authed(t, tu.NewMockRoundTripper(resp, nil))

		_, err := srv.GetArtist(context.Background(), "artist-1")
		if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}
