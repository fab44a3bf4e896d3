package avatar

import (
	"regexp"
	"strings"
	"testing"
)

func TestUpgrade(t *testing.T) {
	t.Run("Empty Input Passes Through", func(t *testing.T) {
		if got := Upgrade(""); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("Google Size Token Rewritten", func(t *testing.T) {
		got := Upgrade("https://lh3.googleusercontent.com/a/abc=s96-c")
		if !regexp.MustCompile(`=s512-c$`).MatchString(got) {
			t.Errorf("expected URL ending in =s512-c, got %q", got)
		}
	})

	t.Run("Google Without Size Token Gets One", func(t *testing.T) {
		got := Upgrade("https://lh3.googleusercontent.com/a/abc")
		if !strings.HasSuffix(got, "=s512-c") {
			t.Errorf("expected appended size token, got %q", got)
		}
	})

	t.Run("Case Insensitive Host", func(t *testing.T) {
		got := Upgrade("https://LH3.GoogleUserContent.com/a/abc=s96-c")
		if !strings.HasSuffix(got, "=s512-c") {
			t.Errorf("expected upgrade for mixed-case host, got %q", got)
		}
	})

	t.Run("GitHub Query Parameter", func(t *testing.T) {
		got := Upgrade("https://avatars.githubusercontent.com/u/1234?v=4&s=64")
		if !strings.Contains(got, "s=512") {
			t.Errorf("expected s=512 in %q", got)
		}
	})

	t.Run("Gravatar Replaces Size", func(t *testing.T) {
		got := Upgrade("https://www.gravatar.com/avatar/deadbeef?s=80")
		if !strings.Contains(got, "s=512") {
			t.Errorf("expected s=512 in %q", got)
		}
	})

	t.Run("Facebook Width And Height", func(t *testing.T) {
		got := Upgrade("https://platform-lookaside.fbsbx.com/platform/profilepic/?asid=123&width=100&height=100")
		if !strings.Contains(got, "width=512") || !strings.Contains(got, "height=512") {
			t.Errorf("expected width=512 and height=512 in %q", got)
		}
	})

	t.Run("Twitter Named Variant", func(t *testing.T) {
		got := Upgrade("https://pbs.twimg.com/profile_images/123/me_normal.jpg")
		if !strings.HasSuffix(got, "_400x400.jpg") {
			t.Errorf("expected _400x400 variant, got %q", got)
		}
	})

	t.Run("Clerk CDN", func(t *testing.T) {
		got := Upgrade("https://img.clerk.com/someimage")
		if !strings.Contains(got, "width=512") {
			t.Errorf("expected width=512 in %q", got)
		}
	})

	t.Run("Spoofed Subdomain Untouched", func(t *testing.T) {
		spoofed := []string{
			"https://evil.fbsbx.com.attacker.com/image.jpg",
			"https://grafavatar.com/avatar/deadbeef?s=80",
			"https://googleusercontent.com.evil.net/a/abc=s96-c",
		}
		for _, raw := range spoofed {
			if got := Upgrade(raw); got != raw {
				t.Errorf("expected %q unchanged, got %q", raw, got)
			}
		}
	})

	t.Run("Unknown Host Untouched", func(t *testing.T) {
		raw := "https://cdn.example.com/avatar.png?s=64"
		if got := Upgrade(raw); got != raw {
			t.Errorf("expected %q unchanged, got %q", raw, got)
		}
	})

	t.Run("Malformed URL Untouched", func(t *testing.T) {
		for _, raw := range []string{"://missing-scheme", "not a url at all", "http://"} {
			if got := Upgrade(raw); got != raw {
				t.Errorf("expected %q unchanged, got %q", raw, got)
			}
		}
	})
}

func TestGravatar(t *testing.T) {
	t.Run("Case And Whitespace Insensitive", func(t *testing.T) {
		a := Gravatar("A@B.com", 0)
		b := Gravatar(" a@b.com ", 0)
		if a != b {
			t.Errorf("expected identical URLs, got %q and %q", a, b)
		}
	})

	t.Run("Default Size", func(t *testing.T) {
		got := Gravatar("a@b.com", 0)
		if !strings.Contains(got, "s=512") {
			t.Errorf("expected default size 512 in %q", got)
		}
		if !strings.Contains(got, "d=404") {
			t.Errorf("expected d=404 in %q", got)
		}
	})

	t.Run("Explicit Size", func(t *testing.T) {
		got := Gravatar("a@b.com", 128)
		if !strings.Contains(got, "s=128") {
			t.Errorf("expected s=128 in %q", got)
		}
	})

	t.Run("Known Digest", func(t *testing.T) {
		// md5("a@b.com") is a stable fixture
		got := Gravatar("a@b.com", 512)
		want := "https://www.gravatar.com/avatar/357a20e8c56e69d6f9734d23ef9517e8?s=512&d=404"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}
