package tasks

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/shared"
	tu "github.com/desertthunder/tonelink/internal/testing"
)

func setupEngine(t *testing.T, spotify *tu.MockService) (*ProfileEngine, *repositories.ProfileRepository, *repositories.LinkRepository) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	profiles := repositories.NewProfileRepository(db)
	links := repositories.NewLinkRepository(db)
	return NewProfileEngine(spotify, profiles, links), profiles, links
}

func TestRefreshFollowers(t *testing.T) {
	spotify := &tu.MockService{Artists: []models.Artist{
		{ID: "artist-1", Name: "Maggie", Followers: 123456},
	}}
	engine, profiles, links := setupEngine(t, spotify)

	profile := models.NewProfile(0, "maggie", "Maggie")
	profile.SetSpotifyArtistID("artist-1")
	if err := profiles.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	spotifyLink := models.NewLink(0, profile.ID(), "spotify", "https://open.spotify.com/artist/artist-1")
	if err := links.Create(spotifyLink); err != nil {
		t.Fatalf("failed to create link: %v", err)
	}
	instaLink := models.NewLink(0, profile.ID(), "instagram", "https://instagram.com/maggie")
	if err := links.Create(instaLink); err != nil {
		t.Fatalf("failed to create link: %v", err)
	}

	t.Run("Updates Spotify Links Only", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 32)

		result, err := engine.RefreshFollowers(context.Background(), progress, profile.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalLinks != 2 {
			t.Errorf("expected 2 links considered, got %d", result.TotalLinks)
		}
		if result.Updated != 1 {
			t.Errorf("expected 1 link updated, got %d", result.Updated)
		}
		if result.Skipped != 1 {
			t.Errorf("expected 1 link skipped, got %d", result.Skipped)
		}

		refreshed, err := links.Get(spotifyLink.ID())
		if err != nil {
			t.Fatalf("failed to reload link: %v", err)
		}
		if refreshed.Followers() != 123456 {
			t.Errorf("expected 123456 followers persisted, got %d", refreshed.Followers())
		}
		if refreshed.SyncedAt() == nil {
			t.Error("expected synced_at to be set")
		}
	})

	t.Run("Unknown Profile", func(t *testing.T) {
		_, err := engine.RefreshFollowers(context.Background(), nil, "missing")
		if err == nil {
			t.Error("expected error for unknown profile")
		}
	})

	t.Run("Nil Service", func(t *testing.T) {
		engine, _, _ := setupEngine(t, spotify)
		engine.spotify = nil

		_, err := engine.RefreshFollowers(context.Background(), nil, profile.ID())
		if err == nil {
			t.Error("expected error for missing service")
		}
	})
}

func TestAuditLinks(t *testing.T) {
	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer alive.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer dead.Close()

	engine, profiles, links := setupEngine(t, &tu.MockService{})

	profile := models.NewProfile(0, "auditor", "Auditor")
	if err := profiles.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	for _, target := range []string{alive.URL, dead.URL} {
		link := models.NewLink(0, profile.ID(), "custom", target)
		if err := links.Create(link); err != nil {
			t.Fatalf("failed to create link: %v", err)
		}
	}

	progress := make(chan ProgressUpdate, 32)
	result, err := engine.AuditLinks(context.Background(), progress, profile.ID())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.TotalLinks != 2 {
		t.Errorf("expected 2 links audited, got %d", result.TotalLinks)
	}
	if result.Healthy != 1 || result.Dead != 1 {
		t.Errorf("expected 1 healthy and 1 dead, got %d/%d", result.Healthy, result.Dead)
	}

	var sawComplete bool
	for len(progress) > 0 {
		update := <-progress
		if update.Phase == Complete {
			sawComplete = true
		}
	}
	if !sawComplete {
		t.Error("expected a completion progress update")
	}
}

func TestExportProfiles(t *testing.T) {
	engine, profiles, links := setupEngine(t, &tu.MockService{})

	profile := models.NewProfile(0, "exporter", "Exporter")
	if err := profiles.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	link := models.NewLink(0, profile.ID(), "spotify", "https://open.spotify.com/artist/abc")
	if err := links.Create(link); err != nil {
		t.Fatalf("failed to create link: %v", err)
	}

	t.Run("JSON Export", func(t *testing.T) {
		outputDir := t.TempDir()

		result, err := engine.ExportProfiles(context.Background(), nil, []string{profile.ID()}, ExportOpts{
			Format:    "json",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SuccessfulExports != 1 {
			t.Fatalf("expected 1 successful export, got %d", result.SuccessfulExports)
		}

		path := filepath.Join(outputDir, "exporter.json")
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "open.spotify.com") {
			t.Error("expected link URL in JSON export")
		}
	})

	t.Run("CSV Export", func(t *testing.T) {
		outputDir := t.TempDir()

		result, err := engine.ExportProfiles(context.Background(), nil, []string{profile.ID()}, ExportOpts{
			Format:    "csv",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Results) != 1 || len(result.Results[0].Files) != 2 {
			t.Fatalf("expected links and metadata files, got %+v", result.Results)
		}
		for _, f := range result.Results[0].Files {
			tu.AssertFileExists(t, f)
		}
	})

	t.Run("Default Output Directory", func(t *testing.T) {
		wd := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, wd)

		result, err := engine.ExportProfiles(context.Background(), nil, []string{profile.ID()}, ExportOpts{
			Format: "json",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(result.OutputDirectory, "tonelink_export_") {
			t.Errorf("unexpected default output directory %q", result.OutputDirectory)
		}
		tu.AssertDirExists(t, result.OutputDirectory)
	})

	t.Run("Unknown Profile Is A Failed Result", func(t *testing.T) {
		outputDir := t.TempDir()

		result, err := engine.ExportProfiles(context.Background(), nil, []string{"missing"}, ExportOpts{
			Format:    "json",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FailedExports != 1 {
			t.Errorf("expected 1 failed export, got %d", result.FailedExports)
		}

		entries, err := os.ReadDir(outputDir)
		if err != nil {
			t.Fatalf("failed to read output dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no files written, got %d", len(entries))
		}
	})
}
