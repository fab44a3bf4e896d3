// package formatter provides display formatting and profile export functions (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/shared"
)

// FormatFollowers renders a follower count the way the dashboard shows it:
// 999 -> "999", 1200 -> "1.2K", 3400000 -> "3.4M", with trailing ".0" trimmed.
func FormatFollowers(n int64) string {
	if n < 0 {
		n = 0
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}

	value := float64(n) / 1000
	suffix := "K"

	// One-decimal rounding carries 999.95+ up to 1000, so promote the
	// suffix before that happens
	if value >= 999.95 {
		value /= 1000
		suffix = "M"
	}
	if value >= 999.95 {
		value /= 1000
		suffix = "B"
	}

	formatted := strconv.FormatFloat(value, 'f', 1, 64)
	formatted = strings.TrimSuffix(formatted, ".0")

	return formatted + suffix
}

// ExportToCSV converts a profile's links to CSV with columns: ID, Platform, URL, Position, Followers
func ExportToCSV(profile *models.Profile, links []*models.Link) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Platform", "URL", "Position", "Followers"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, link := range links {
		record := []string{
			link.ID(),
			link.Platform(),
			link.URL(),
			strconv.Itoa(link.Position()),
			strconv.FormatInt(link.Followers(), 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a profile's links to Markdown with optional avatar image
func ExportToMarkdown(profile *models.Profile, links []*models.Link, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", profile.DisplayName()))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Avatar](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Username**: @%s\n", profile.Username()))
	buf.WriteString(fmt.Sprintf("**Links**: %d\n\n", len(links)))

	buf.WriteString("## Links\n\n")
	for i, link := range links {
		followersPart := ""
		if link.Followers() > 0 {
			followersPart = fmt.Sprintf(" (%s followers)", FormatFollowers(link.Followers()))
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s\n", i+1, link.Platform(), link.URL(), followersPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a profile's links to plain text format
func ExportToText(profile *models.Profile, links []*models.Link) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Profile: %s (@%s)\n", profile.DisplayName(), profile.Username()))
	buf.WriteString(fmt.Sprintf("Links: %d\n\n", len(links)))

	for i, link := range links {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, link.Platform(), link.URL()))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of profile metadata (without links)
func ToMetadataJSON(profile *models.Profile) ([]byte, error) {
	return shared.MarshalJSON(map[string]any{
		"id":                profile.ID(),
		"username":          profile.Username(),
		"display_name":      profile.DisplayName(),
		"brand_color":       profile.BrandColor(),
		"avatar_url":        profile.AvatarURL(),
		"spotify_artist_id": profile.SpotifyArtistID(),
	}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	LinksFile    string
	MetadataFile string
}

// WriteCSVExport exports a profile to CSV format with an accompanying metadata JSON file.
//
// Defaults to the username as the base filename & creates {base}_links.csv and {base}_metadata.json
func WriteCSVExport(profile *models.Profile, links []*models.Link, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = profile.Username()
	}

	csvData, err := ExportToCSV(profile, links)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	linksFile := baseFilepath + "_links.csv"
	if err := os.WriteFile(linksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write links CSV: %w", err)
	}

	metadata, err := ToMetadataJSON(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadata, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	return &CSVExportResult{LinksFile: linksFile, MetadataFile: metadataFile}, nil
}
