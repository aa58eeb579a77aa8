package mediaurl

import (
	"net/url"
	"strings"
)

// Kind says how a resolved link should be played.
type Kind string

const (
	// KindIframe means URL is safe to place in an <iframe src>.
	KindIframe Kind = "iframe"
	// KindNative means no embed URL exists; play URL with a native <video>.
	KindNative Kind = "native"
	// KindNone means there is nothing playable and the caller should show
	// its error state.
	KindNone Kind = "none"
)

// Embedding is the result of resolving a stored video link.
type Embedding struct {
	Kind Kind   `json:"kind"`
	URL  string `json:"url"`
}

// Playable reports whether the caller has something to play.
func (e Embedding) Playable() bool {
	return e.Kind != KindNone
}

const youtubeEmbedBase = "https://www.youtube.com/embed/"

// Embed resolves raw into an iframe URL, a native-player fallback, or
// nothing.
//
// callerOrigin is the origin of the page doing the embedding. YouTube uses
// it for the player API handshake; it is not part of the resolved link.
//
// Rules, first match wins:
//   - empty input: KindNone
//   - no http:// or https:// prefix: KindNative (direct or local file)
//   - unparsable URL: KindNone
//   - Drive link with a file ID: iframe preview URL
//   - YouTube watch/embed/shorts or youtu.be link with an ID: iframe embed URL
//   - YouTube shape matched but ID empty: KindNative
//   - anything else containing "embed": raw plus autoplay params, as iframe
//   - otherwise: KindNative
func Embed(raw, callerOrigin string) Embedding {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Embedding{Kind: KindNone}
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return Embedding{Kind: KindNative, URL: s}
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return Embedding{Kind: KindNone}
	}

	host := u.Hostname()
	if isDriveHost(host) {
		if id := driveFileID(u); id != "" {
			return Embedding{Kind: KindIframe, URL: drivePreviewURL(id)}
		}
	}

	id, matched := youtubeID(u)
	if matched {
		id = firstSegment(id)
		if id == "" {
			return Embedding{Kind: KindNative, URL: s}
		}
		return Embedding{Kind: KindIframe, URL: youtubeEmbedURL(id, callerOrigin)}
	}

	if strings.Contains(s, "embed") {
		sep := "?"
		if strings.Contains(s, "?") {
			sep = "&"
		}
		return Embedding{Kind: KindIframe, URL: s + sep + "autoplay=1&mute=1"}
	}

	return Embedding{Kind: KindNative, URL: s}
}

// EmbedURL returns only iframe-embeddable results. ok is false whenever the
// caller should fall back to a native player or an error state.
func EmbedURL(raw, callerOrigin string) (string, bool) {
	e := Embed(raw, callerOrigin)
	if e.Kind != KindIframe {
		return "", false
	}
	return e.URL, true
}

// youtubeID extracts a candidate video ID. matched reports whether u had one
// of the recognized YouTube shapes, even when the extracted ID is empty.
func youtubeID(u *url.URL) (id string, matched bool) {
	host := u.Hostname()
	switch {
	case hostMatches(host, "youtube.com"):
		p := u.Path
		switch {
		case strings.Contains(p, "/watch"):
			return u.Query().Get("v"), true
		case strings.Contains(p, "/embed/"):
			rest, _ := cutSegmentPrefix(p, "/embed/")
			return rest, true
		case strings.Contains(p, "/shorts/"):
			rest, _ := cutSegmentPrefix(p, "/shorts/")
			return rest, true
		}
		return "", false
	case hostMatches(host, "youtu.be"):
		return strings.TrimPrefix(u.Path, "/"), true
	}
	return "", false
}

func youtubeEmbedURL(id, origin string) string {
	return youtubeEmbedBase + url.PathEscape(id) +
		"?autoplay=1&mute=1&rel=0&playsinline=1&origin=" + url.QueryEscape(origin)
}
