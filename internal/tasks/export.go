package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/tonelink/internal/formatter"
	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/shared"
)

// ExportOpts contains configuration for bulk profile exports.
type ExportOpts struct {
	Format     string // Export format: json, csv, markdown, txt
	OutputDir  string // Base output directory (default: tonelink_export_{epoch})
	NumWorkers int    // Concurrent workers (default: 5)
}

// ProfileExportJob carries one profile and its links to an export worker.
type ProfileExportJob struct {
	Profile *models.Profile
	Links   []*models.Link
}

// ProfileExportResult represents the outcome of exporting a single profile.
type ProfileExportResult struct {
	ProfileID string
	Username  string
	Success   bool
	Files     []string
	Error     error
}

// ExportResult summarizes a bulk export run.
type ExportResult struct {
	TotalProfiles     int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	Results           []ProfileExportResult
}

// ExportProfiles exports multiple profiles concurrently with progress tracking.
//
// Implements a worker pool so large exports finish quickly while partial
// failures are collected per profile instead of aborting the run.
func (e *ProfileEngine) ExportProfiles(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts ExportOpts) (*ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tonelink_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		TotalProfiles:   len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ProfileExportResult, 0, len(ids)),
	}

	jobs := make(chan ProfileExportJob, len(ids))
	results := make(chan ProfileExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, profileID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			profile, err := e.profiles.Get(profileID)
			if err != nil {
				results <- ProfileExportResult{
					ProfileID: profileID,
					Username:  fmt.Sprintf("Unknown (%s)", profileID),
					Error:     err,
				}
				continue
			}

			links, err := e.links.ListByProfile(profile.ID())
			if err != nil {
				results <- ProfileExportResult{
					ProfileID: profileID,
					Username:  profile.Username(),
					Error:     err,
				}
				continue
			}

			jobs <- ProfileExportJob{Profile: profile, Links: links}
			e.sendProgress(prog, exportingProfileUpdate(i+1, len(ids), profile.Username()))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Username, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Username, res.Error))
		}
	}

	return result, nil
}

// exportWorker is a worker goroutine that exports profiles from the jobs channel.
func (e *ProfileEngine) exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan ProfileExportJob, results chan<- ProfileExportResult, opts ExportOpts) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSingleProfile(job, opts)
	}
}

// exportSingleProfile exports a single profile to the requested format.
func (e *ProfileEngine) exportSingleProfile(j ProfileExportJob, opts ExportOpts) ProfileExportResult {
	result := ProfileExportResult{
		ProfileID: j.Profile.ID(),
		Username:  j.Profile.Username(),
		Files:     []string{},
	}

	switch opts.Format {
	case "csv":
		base := filepath.Join(opts.OutputDir, j.Profile.Username())
		csvRes, err := formatter.WriteCSVExport(j.Profile, j.Links, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.LinksFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		data, err := formatter.ExportToMarkdown(j.Profile, j.Links, j.Profile.AvatarURL())
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.md", j.Profile.Username()))
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Error = fmt.Errorf("markdown write failed: %w", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "txt":
		data, err := formatter.ExportToText(j.Profile, j.Links)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_links.txt", j.Profile.Username()))
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Error = fmt.Errorf("text write failed: %w", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "json":
		fallthrough
	default:
		payload := map[string]any{
			"profile": map[string]any{
				"id":           j.Profile.ID(),
				"username":     j.Profile.Username(),
				"display_name": j.Profile.DisplayName(),
				"brand_color":  j.Profile.BrandColor(),
				"avatar_url":   j.Profile.AvatarURL(),
			},
		}
		links := make([]map[string]any, 0, len(j.Links))
		for _, link := range j.Links {
			links = append(links, map[string]any{
				"id":        link.ID(),
				"platform":  link.Platform(),
				"url":       link.URL(),
				"position":  link.Position(),
				"followers": link.Followers(),
			})
		}
		payload["links"] = links

		data, err := shared.MarshalJSON(payload, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Profile.Username()))
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true
	}
	return result
}
