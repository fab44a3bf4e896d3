package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// KnownPlatforms are the platform slugs the dashboard offers pickers for.
// Links with other slugs are still accepted and rendered generically.
var KnownPlatforms = []string{
	"spotify", "apple_music", "youtube", "soundcloud", "bandcamp",
	"instagram", "tiktok", "twitter", "facebook", "website",
}

// Link represents one social link row on a profile.
// Position is the display order within the owning profile.
type Link struct {
	meta
	sequence  int
	profileID string
	platform  string
	url       string
	position  int
	followers int64
	syncedAt  *time.Time
}

// NewLink creates a Link owned by profileID for the given platform and URL.
func NewLink(sequence int, profileID, platform, rawURL string) *Link {
	return &Link{
		meta:      newMeta(),
		sequence:  sequence,
		profileID: profileID,
		platform:  strings.ToLower(strings.TrimSpace(platform)),
		url:       strings.TrimSpace(rawURL),
	}
}

func (l *Link) Sequence() int        { return l.sequence }
func (l *Link) ProfileID() string    { return l.profileID }
func (l *Link) Platform() string     { return l.platform }
func (l *Link) URL() string          { return l.url }
func (l *Link) Position() int        { return l.position }
func (l *Link) Followers() int64     { return l.followers }
func (l *Link) SyncedAt() *time.Time { return l.syncedAt }

func (l *Link) SetURL(rawURL string)     { l.url = strings.TrimSpace(rawURL) }
func (l *Link) SetPosition(pos int)      { l.position = pos }
func (l *Link) SetFollowers(n int64)     { l.followers = n }
func (l *Link) SetSyncedAt(t *time.Time) { l.syncedAt = t }

// Validate checks that the link has an owner, a platform slug, and an absolute http(s) URL.
func (l *Link) Validate() error {
	if l.profileID == "" {
		return fmt.Errorf("profile ID is required")
	}
	if l.platform == "" {
		return fmt.Errorf("platform is required")
	}
	parsed, err := url.Parse(l.url)
	if err != nil || !parsed.IsAbs() {
		return fmt.Errorf("invalid link URL: %s", l.url)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if l.position < 0 {
		return fmt.Errorf("position must be non-negative")
	}
	return nil
}
