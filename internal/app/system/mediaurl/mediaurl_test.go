package mediaurl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"drive view link", "https://drive.google.com/file/d/ABC123/view?usp=sharing", "https://drive.google.com/file/d/ABC123/preview"},
		{"drive view no query", "https://drive.google.com/file/d/XYZ/view", "https://drive.google.com/file/d/XYZ/preview"},
		{"drive open id param", "https://drive.google.com/open?id=QQQ", "https://drive.google.com/file/d/QQQ/preview"},
		{"drive uc id param", "https://drive.google.com/uc?export=download&id=Z9", "https://drive.google.com/file/d/Z9/preview"},
		{"drive path wins over id param", "https://drive.google.com/file/d/PATH/view?id=QUERY", "https://drive.google.com/file/d/PATH/preview"},
		{"drive mixed case host", "https://Drive.Google.com/file/d/K1/edit", "https://drive.google.com/file/d/K1/preview"},
		{"drive user scoped path", "https://drive.google.com/a/example.com/file/d/U1/view", "https://drive.google.com/file/d/U1/preview"},
		{"drive without id", "https://drive.google.com/drive/folders", "https://drive.google.com/drive/folders"},
		{"surrounding whitespace", "  https://drive.google.com/file/d/W/view  ", "https://drive.google.com/file/d/W/preview"},
		{"youtube untouched", "https://www.youtube.com/watch?v=abc123", "https://www.youtube.com/watch?v=abc123"},
		{"other host untouched", "https://example.com/video.mp4", "https://example.com/video.mp4"},
		{"lookalike host untouched", "https://notdrive.google.com.evil.test/file/d/X/view", "https://notdrive.google.com.evil.test/file/d/X/view"},
		{"relative path", "/uploads/clip.mp4", "/uploads/clip.mp4"},
		{"not a url", "just some words", "just some words"},
		{"untouched input keeps whitespace", "  not a url  ", "  not a url  "},
		{"untouched url keeps whitespace", " https://cdn.test/a.mp4\n", " https://cdn.test/a.mp4\n"},
		{"drive encoded slash in id", "https://drive.google.com/file/d/a%2Fb/view", "https://drive.google.com/file/d/a%2Fb/preview"},
		{"drive encoded brackets in id", "https://drive.google.com/file/d/%3Cx%3E/view", "https://drive.google.com/file/d/%3Cx%3E/preview"},
		{"drive id param with slash", "https://drive.google.com/open?id=a%2Fb", "https://drive.google.com/file/d/a%2Fb/preview"},
		{"drive empty path id ignores id param", "https://drive.google.com/file/d//view?id=Q", "https://drive.google.com/file/d//view?id=Q"},
		{"empty", "", ""},
		{"broken escape", "https://drive.google.com/%zz", "https://drive.google.com/%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://drive.google.com/file/d/ABC123/view?usp=sharing",
		"https://drive.google.com/open?id=QQQ",
		"https://drive.google.com/file/d/ABC123/preview",
		"https://drive.google.com/file/d/a%2Fb/view",
		"https://www.youtube.com/watch?v=abc123",
		"not a url",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_NeverPanics(t *testing.T) {
	inputs := []string{"://", "http://", "https://[::1", "\x00", "%", "drive.google.com/file/d/"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Normalize(in) }, "input %q", in)
		assert.NotPanics(t, func() { Embed(in, "https://site.test") }, "input %q", in)
	}
}

func TestDriveImageURL(t *testing.T) {
	assert.Equal(t,
		"https://drive.google.com/uc?export=view&id=IMG1",
		DriveImageURL("https://drive.google.com/file/d/IMG1/view?usp=sharing"))
	assert.Equal(t,
		"https://drive.google.com/uc?export=view&id=IMG2",
		DriveImageURL("https://drive.google.com/open?id=IMG2"))
	assert.Equal(t, "https://cdn.test/a.jpg", DriveImageURL("https://cdn.test/a.jpg"))
	assert.Equal(t, "", DriveImageURL(""))
	assert.Equal(t,
		"https://drive.google.com/uc?export=view&id=a%2Fb",
		DriveImageURL("https://drive.google.com/file/d/a%2Fb/view"))
	assert.Equal(t, " https://cdn.test/a.jpg ", DriveImageURL(" https://cdn.test/a.jpg "))
}

func TestEmbed(t *testing.T) {
	const origin = "https://site.test"

	tests := []struct {
		name     string
		in       string
		wantKind Kind
		wantURL  string
	}{
		{"empty", "", KindNone, ""},
		{"relative path", "/uploads/clip.mp4", KindNative, "/uploads/clip.mp4"},
		{"bare filename", "clip.mp4", KindNative, "clip.mp4"},
		{"drive view", "https://drive.google.com/file/d/XYZ/view", KindIframe, "https://drive.google.com/file/d/XYZ/preview"},
		{"drive preview", "https://drive.google.com/file/d/XYZ/preview", KindIframe, "https://drive.google.com/file/d/XYZ/preview"},
		{"drive encoded id", "https://drive.google.com/file/d/%3Cx%3E/view", KindIframe, "https://drive.google.com/file/d/%3Cx%3E/preview"},
		{"youtube watch", "https://www.youtube.com/watch?v=abc123", KindIframe,
			"https://www.youtube.com/embed/abc123?autoplay=1&mute=1&rel=0&playsinline=1&origin=https%3A%2F%2Fsite.test"},
		{"youtube watch extra params", "https://youtube.com/watch?v=abc123&t=30s", KindIframe,
			"https://www.youtube.com/embed/abc123?autoplay=1&mute=1&rel=0&playsinline=1&origin=https%3A%2F%2Fsite.test"},
		{"youtube embed", "https://www.youtube.com/embed/abc123", KindIframe,
			"https://www.youtube.com/embed/abc123?autoplay=1&mute=1&rel=0&playsinline=1&origin=https%3A%2F%2Fsite.test"},
		{"youtube shorts trailing slash", "https://www.youtube.com/shorts/sh0rt/", KindIframe,
			"https://www.youtube.com/embed/sh0rt?autoplay=1&mute=1&rel=0&playsinline=1&origin=https%3A%2F%2Fsite.test"},
		{"youtu.be", "https://youtu.be/abc123", KindIframe,
			"https://www.youtube.com/embed/abc123?autoplay=1&mute=1&rel=0&playsinline=1&origin=https%3A%2F%2Fsite.test"},
		{"youtube watch without v", "https://www.youtube.com/watch?list=PL1", KindNative, "https://www.youtube.com/watch?list=PL1"},
		{"youtube embed empty id", "https://www.youtube.com/embed/", KindNative, "https://www.youtube.com/embed/"},
		{"generic embed", "https://player.vimeo.com/embed/42", KindIframe, "https://player.vimeo.com/embed/42?autoplay=1&mute=1"},
		{"generic embed with query", "https://player.test/embed?id=1", KindIframe, "https://player.test/embed?id=1&autoplay=1&mute=1"},
		{"random page", "https://example.com/about", KindNative, "https://example.com/about"},
		{"unparsable", "https://exa mple.com/%zz", KindNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Embed(tt.in, origin)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantURL, got.URL)
		})
	}
}

func TestEmbedURL(t *testing.T) {
	u, ok := EmbedURL("https://www.youtube.com/watch?v=abc123", "")
	assert.True(t, ok)
	assert.Contains(t, u, "/embed/abc123")
	assert.Contains(t, u, "autoplay=1")

	u, ok = EmbedURL("https://youtu.be/abc123", "")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(u, "https://www.youtube.com/embed/abc123?"))

	_, ok = EmbedURL("/local/video.mp4", "")
	assert.False(t, ok)

	_, ok = EmbedURL("https://example.com/page", "")
	assert.False(t, ok)
}

func TestEmbed_AgreesWithNormalize(t *testing.T) {
	raw := "https://drive.google.com/file/d/ABC123/view?usp=sharing"
	e := Embed(Normalize(raw), "")
	assert.Equal(t, KindIframe, e.Kind)
	assert.Equal(t, Normalize(raw), e.URL)
}
