package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/tasks"
	"github.com/urfave/cli/v3"
)

// newEngine builds a ProfileEngine over the given database handle.
func (r *Runner) newEngine(db *sql.DB) *tasks.ProfileEngine {
	return tasks.NewProfileEngine(r.spotify,
		repositories.NewProfileRepository(db),
		repositories.NewLinkRepository(db))
}

// drainProgress prints progress updates until the channel closes.
func (r *Runner) drainProgress(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("[%s] %s\n", update.Phase, update.Message)
		}
	}()
	return done
}

// Refresh pulls fresh follower counts for a profile's connected links.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	if _, err := r.ensureSpotify(ctx); err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := resolveProfile(repositories.NewProfileRepository(db), cmd.String("profile"))
	if err != nil {
		return err
	}

	engine := r.newEngine(db)

	progress := make(chan tasks.ProgressUpdate, 64)
	done := r.drainProgress(progress)

	result, err := engine.RefreshFollowers(ctx, progress, profile.ID())
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"total":   result.TotalLinks,
			"updated": result.Updated,
			"skipped": result.Skipped,
			"failed":  result.Failed,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Refresh Complete")
	r.writePlain("Links: %d total, %d updated, %d skipped, %d failed\n",
		result.TotalLinks, result.Updated, result.Skipped, result.Failed)
	return nil
}

// Audit probes every link of a profile and reports dead destinations.
func (r *Runner) Audit(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := resolveProfile(repositories.NewProfileRepository(db), cmd.String("profile"))
	if err != nil {
		return err
	}

	engine := r.newEngine(db)

	progress := make(chan tasks.ProgressUpdate, 64)
	done := r.drainProgress(progress)

	result, err := engine.AuditLinks(ctx, progress, profile.ID())
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"total":   result.TotalLinks,
			"healthy": result.Healthy,
			"dead":    result.Dead,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Audit Complete")
	r.writePlain("Links: %d total, %d healthy, %d dead\n", result.TotalLinks, result.Healthy, result.Dead)
	for _, res := range result.Results {
		if res.Healthy {
			continue
		}
		if res.Error != nil {
			r.writePlain("✗ %s (%v)\n", res.Link.URL(), res.Error)
		} else {
			r.writePlain("✗ %s (HTTP %d)\n", res.Link.URL(), res.StatusCode)
		}
	}
	return nil
}

// Export writes profiles and their links to disk in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	ids := cmd.StringSlice("profile")
	if len(ids) == 0 {
		profiles, err := repositories.NewProfileRepository(db).List(nil)
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		for _, p := range profiles {
			ids = append(ids, p.ID())
		}
	}

	if len(ids) == 0 {
		r.writePlain("Nothing to export\n")
		return nil
	}

	engine := r.newEngine(db)

	progress := make(chan tasks.ProgressUpdate, 64)
	done := r.drainProgress(progress)

	result, err := engine.ExportProfiles(ctx, progress, ids, tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainHeader("Export Complete")
	r.writePlain("Profiles: %d total, %d exported, %d failed\n",
		result.TotalProfiles, result.SuccessfulExports, result.FailedExports)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	for _, res := range result.Results {
		if res.Error != nil {
			r.writePlain("✗ %s: %v\n", res.Username, res.Error)
		}
	}
	return nil
}
