package models

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Profile represents an artist profile: the owner of a public link-in-bio page.
type Profile struct {
	meta
	sequence        int
	username        string
	displayName     string
	brandColor      string
	avatarURL       string
	spotifyArtistID string
	apiToken        string
}

// NewProfile creates a Profile with the given sequence, username, and display name.
func NewProfile(sequence int, username, displayName string) *Profile {
	return &Profile{
		meta:        newMeta(),
		sequence:    sequence,
		username:    strings.ToLower(strings.TrimSpace(username)),
		displayName: displayName,
		brandColor:  "#7D56F4",
	}
}

func (p *Profile) Sequence() int           { return p.sequence }
func (p *Profile) Username() string        { return p.username }
func (p *Profile) DisplayName() string     { return p.displayName }
func (p *Profile) BrandColor() string      { return p.brandColor }
func (p *Profile) AvatarURL() string       { return p.avatarURL }
func (p *Profile) SpotifyArtistID() string { return p.spotifyArtistID }
func (p *Profile) APIToken() string        { return p.apiToken }

func (p *Profile) SetDisplayName(name string) { p.displayName = name }
func (p *Profile) SetAvatarURL(url string)    { p.avatarURL = url }
func (p *Profile) SetSpotifyArtistID(id string) {
	p.spotifyArtistID = id
}
func (p *Profile) SetAPIToken(token string) { p.apiToken = token }

// SetBrandColor accepts a #RRGGBB hex color.
func (p *Profile) SetBrandColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid brand color: %s", color)
	}
	p.brandColor = color
	return nil
}

// Validate checks that the profile has a well-formed username, display name, and brand color.
func (p *Profile) Validate() error {
	if p.username == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(p.displayName) == "" {
		return fmt.Errorf("display name is required")
	}
	if !hexColorPattern.MatchString(p.brandColor) {
		return fmt.Errorf("invalid brand color: %s", p.brandColor)
	}
	return nil
}
