// package avatar normalizes avatar URLs from OAuth providers.
//
// Providers hand back small thumbnails (96px or less); Upgrade rewrites known
// provider URLs to request a higher resolution. Host matching is exact or
// dot-boundary subdomain only, so lookalike hosts pass through untouched.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// TargetSize is the resolution requested from providers that accept a pixel size.
const TargetSize = 512

var (
	googleSizeToken  = regexp.MustCompile(`=s\d+(-c)?$`)
	twitterSizeToken = regexp.MustCompile(`_(normal|bigger|mini)(\.[A-Za-z0-9]+)?$`)
)

// provider pairs a set of owned domains with a URL rewrite.
type provider struct {
	domains []string
	rewrite func(u *url.URL)
}

var providers = []provider{
	{
		// Google avatars encode size as a trailing =sN path token.
		domains: []string{"googleusercontent.com"},
		rewrite: func(u *url.URL) {
			token := fmt.Sprintf("=s%d-c", TargetSize)
			if googleSizeToken.MatchString(u.Path) {
				u.Path = googleSizeToken.ReplaceAllString(u.Path, token)
			} else {
				u.Path += token
			}
		},
	},
	{
		domains: []string{"avatars.githubusercontent.com"},
		rewrite: setQuery("s"),
	},
	{
		domains: []string{"gravatar.com"},
		rewrite: func(u *url.URL) {
			q := u.Query()
			q.Del("size")
			q.Set("s", fmt.Sprint(TargetSize))
			u.RawQuery = q.Encode()
		},
	},
	{
		domains: []string{"fbsbx.com", "fbcdn.net"},
		rewrite: setQuery("width", "height"),
	},
	{
		// Twitter only serves named variants; _400x400 is the largest.
		domains: []string{"pbs.twimg.com"},
		rewrite: func(u *url.URL) {
			if twitterSizeToken.MatchString(u.Path) {
				u.Path = twitterSizeToken.ReplaceAllString(u.Path, "_400x400$2")
			}
		},
	},
	{
		domains: []string{"img.clerk.com"},
		rewrite: setQuery("width"),
	},
}

// setQuery returns a rewrite that sets each named query parameter to [TargetSize].
func setQuery(keys ...string) func(u *url.URL) {
	return func(u *url.URL) {
		q := u.Query()
		for _, key := range keys {
			q.Set(key, fmt.Sprint(TargetSize))
		}
		u.RawQuery = q.Encode()
	}
}

// Upgrade rewrites a known provider's avatar URL to request [TargetSize] pixels.
//
// Empty input, malformed URLs, and unknown hosts are returned unchanged.
// Never returns an error.
func Upgrade(raw string) string {
	if raw == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	for _, p := range providers {
		for _, domain := range p.domains {
			if matchHost(host, domain) {
				p.rewrite(u)
				return u.String()
			}
		}
	}

	return raw
}

// matchHost reports whether host is domain or a subdomain of it.
//
// Suffix matching alone is not enough: evil.fbsbx.com.attacker.com must not
// match fbsbx.com, so the boundary has to be a dot.
func matchHost(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// Gravatar deterministically maps an email address to its Gravatar URL.
//
// The email is trimmed and lowercased before hashing, so equivalent addresses
// always produce the same URL. A size of 0 or less falls back to [TargetSize].
// The d=404 parameter makes Gravatar return 404 instead of a placeholder.
func Gravatar(email string, size int) string {
	if size <= 0 {
		size = TargetSize
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	digest := md5.Sum([]byte(normalized))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=404", hex.EncodeToString(digest[:]), size)
}
