// package tasks implements profile maintenance operations (follower refresh, link audits, exports).
package tasks

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/services"
	"github.com/desertthunder/tonelink/internal/shared"
)

// LinkRefreshResult represents the outcome of refreshing a single link's follower count.
type LinkRefreshResult struct {
	Link      *models.Link // Link that was refreshed
	Followers int64        // New follower count (valid when Error is nil)
	Error     error        // Error if the refresh failed
}

// RefreshResult contains all data from a follower refresh run.
type RefreshResult struct {
	TotalLinks int                 // Links considered
	Updated    int                 // Links with refreshed counts persisted
	Skipped    int                 // Links with no linked artist
	Failed     int                 // Links whose refresh errored
	Results    []LinkRefreshResult // Individual outcomes
}

// LinkAuditResult represents the outcome of probing a single link URL.
type LinkAuditResult struct {
	Link       *models.Link // Link that was probed
	StatusCode int          // HTTP status from the HEAD request (0 when unreachable)
	Healthy    bool         // True when the destination answered with a non-error status
	Error      error        // Transport error, if any
}

// AuditResult contains all data from a link audit run.
type AuditResult struct {
	TotalLinks int               // Links probed
	Healthy    int               // Links that answered successfully
	Dead       int               // Links that errored or answered >= 400
	Results    []LinkAuditResult // Individual outcomes
}

// Engine defines maintenance operations over a profile's links.
type Engine interface {
	// RefreshFollowers updates cached follower counts for links with a connected artist.
	RefreshFollowers(ctx context.Context, progress chan<- ProgressUpdate, profileID string) (*RefreshResult, error)

	// AuditLinks probes every link URL and flags dead destinations.
	AuditLinks(ctx context.Context, progress chan<- ProgressUpdate, profileID string) (*AuditResult, error)
}

// ProfileEngine implements Engine for profile maintenance operations.
// Contains dependencies on the DSP service and repositories.
type ProfileEngine struct {
	spotify    services.Service
	profiles   *repositories.ProfileRepository
	links      *repositories.LinkRepository
	httpClient *http.Client
	numWorkers int
	rateLimit  float64
}

// NewProfileEngine creates a new ProfileEngine with the provided dependencies.
func NewProfileEngine(spotify services.Service, profiles *repositories.ProfileRepository, links *repositories.LinkRepository) *ProfileEngine {
	return &ProfileEngine{
		spotify:    spotify,
		profiles:   profiles,
		links:      links,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		numWorkers: 5,
		rateLimit:  5.0,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ProfileEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// RefreshFollowers pulls fresh follower counts from the DSP for every link of
// the profile that has a connected artist and persists them.
func (e *ProfileEngine) RefreshFollowers(ctx context.Context, progress chan<- ProgressUpdate, profileID string) (*RefreshResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchingLinksUpdate(profileID))

	profile, err := e.profiles.Get(profileID)
	if err != nil {
		return nil, err
	}

	links, err := e.links.ListByProfile(profile.ID())
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{
		TotalLinks: len(links),
		Results:    make([]LinkRefreshResult, 0, len(links)),
	}

	limiter := rate.NewLimiter(rate.Limit(e.rateLimit), 1)

	jobs := make(chan *models.Link, len(links))
	results := make(chan LinkRefreshResult, len(links))

	var wg sync.WaitGroup
	for i := 0; i < e.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := limiter.Wait(ctx); err != nil {
					return
				}

				results <- e.refreshLink(ctx, profile, link)
			}
		}()
	}

	queued := 0
	for _, link := range links {
		if link.Platform() != "spotify" || profile.SpotifyArtistID() == "" {
			result.Skipped++
			continue
		}
		jobs <- link
		queued++
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error != nil {
			result.Failed++
			e.sendProgress(progress, refreshFailedUpdate(completed, queued, res.Link, res.Error))
			continue
		}

		result.Updated++
		e.sendProgress(progress, refreshedUpdate(completed, queued, res.Link, res.Followers))
	}

	e.sendProgress(progress, completeUpdate(fmt.Sprintf("Refreshed %d of %d links", result.Updated, result.TotalLinks)))
	return result, nil
}

// refreshLink fetches the artist's follower count and persists it on the link.
func (e *ProfileEngine) refreshLink(ctx context.Context, profile *models.Profile, link *models.Link) LinkRefreshResult {
	artist, err := e.spotify.GetArtist(ctx, profile.SpotifyArtistID())
	if err != nil {
		return LinkRefreshResult{Link: link, Error: err}
	}

	now := time.Now()
	link.SetFollowers(artist.Followers)
	link.SetSyncedAt(&now)

	if err := e.links.Update(link); err != nil {
		return LinkRefreshResult{Link: link, Error: err}
	}

	return LinkRefreshResult{Link: link, Followers: artist.Followers}
}

// AuditLinks probes every link of the profile with a HEAD request and flags
// destinations that are unreachable or answer with an error status.
func (e *ProfileEngine) AuditLinks(ctx context.Context, progress chan<- ProgressUpdate, profileID string) (*AuditResult, error) {
	e.sendProgress(progress, fetchingLinksUpdate(profileID))

	links, err := e.links.ListByProfile(profileID)
	if err != nil {
		return nil, err
	}

	result := &AuditResult{
		TotalLinks: len(links),
		Results:    make([]LinkAuditResult, 0, len(links)),
	}

	limiter := rate.NewLimiter(rate.Limit(e.rateLimit), 1)

	jobs := make(chan *models.Link, len(links))
	results := make(chan LinkAuditResult, len(links))

	var wg sync.WaitGroup
	for i := 0; i < e.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := limiter.Wait(ctx); err != nil {
					return
				}

				results <- e.probeLink(ctx, link)
			}
		}()
	}

	for _, link := range links {
		jobs <- link
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Healthy {
			result.Healthy++
		} else {
			result.Dead++
		}
		e.sendProgress(progress, auditedUpdate(completed, len(links), res))
	}

	e.sendProgress(progress, completeUpdate(fmt.Sprintf("Audited %d links, %d dead", result.TotalLinks, result.Dead)))
	return result, nil
}

// probeLink issues a HEAD request to the link's destination.
func (e *ProfileEngine) probeLink(ctx context.Context, link *models.Link) LinkAuditResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link.URL(), nil)
	if err != nil {
		return LinkAuditResult{Link: link, Error: err}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return LinkAuditResult{Link: link, Error: err}
	}
	defer resp.Body.Close()

	return LinkAuditResult{
		Link:       link,
		StatusCode: resp.StatusCode,
		Healthy:    resp.StatusCode < 400,
	}
}
