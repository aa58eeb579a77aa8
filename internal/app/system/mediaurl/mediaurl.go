// Package mediaurl normalizes stored video links and resolves them into
// something a page can play.
//
// Two operations are exposed:
//
//   - Normalize rewrites Google Drive share links to the canonical preview
//     form before they are stored. It is applied on create and on update.
//   - Embed decides, at render time, whether a stored link plays in an
//     iframe (YouTube, Drive), in a native <video> element, or not at all.
//
// Neither function returns an error. Malformed input degrades to "leave it
// alone" (Normalize) or "no embed" (Embed).
package mediaurl

import (
	"net/url"
	"strings"
)

const driveHost = "drive.google.com"

// Normalize returns the canonical form of a video link.
//
// Drive links with a file ID (either /file/d/{ID}/... or ?id={ID}) become
// https://drive.google.com/file/d/{ID}/preview; surrounding whitespace is
// ignored when matching. Everything else, including strings that are not
// absolute URLs, is returned exactly as given. Normalize is idempotent.
func Normalize(raw string) string {
	u, ok := parseAbsolute(strings.TrimSpace(raw))
	if !ok || !isDriveHost(u.Hostname()) {
		return raw
	}
	if id := driveFileID(u); id != "" {
		return drivePreviewURL(id)
	}
	return raw
}

// DriveImageURL rewrites a Drive share link into a direct image URL
// suitable for <img src>. Links that are not Drive links, or carry no
// file ID, are returned unchanged.
func DriveImageURL(raw string) string {
	u, ok := parseAbsolute(strings.TrimSpace(raw))
	if !ok || !isDriveHost(u.Hostname()) {
		return raw
	}
	id := driveFileID(u)
	if id == "" {
		return raw
	}
	if plain, err := url.PathUnescape(id); err == nil {
		id = plain
	}
	return "https://drive.google.com/uc?export=view&id=" + url.QueryEscape(id)
}

// parseAbsolute parses s and reports whether it has both a scheme and a host.
func parseAbsolute(s string) (*url.URL, bool) {
	if s == "" {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}

// isDriveHost matches drive.google.com and any of its subdomains.
func isDriveHost(host string) bool {
	return hostMatches(host, driveHost)
}

// hostMatches reports whether host equals domain or is a subdomain of it.
func hostMatches(host, domain string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// driveFileID extracts the file ID from a Drive URL in path-escaped form,
// so an encoded ID is carried over byte for byte. When the path has a
// /file/d/ segment the id query parameter is not consulted, even if the
// segment is empty.
func driveFileID(u *url.URL) string {
	if rest, ok := cutSegmentPrefix(u.EscapedPath(), "/file/d/"); ok {
		return firstSegment(rest)
	}
	if id := u.Query().Get("id"); id != "" {
		return url.PathEscape(id)
	}
	return ""
}

func drivePreviewURL(id string) string {
	return "https://drive.google.com/file/d/" + id + "/preview"
}

// cutSegmentPrefix finds prefix anywhere in path and returns what follows it.
func cutSegmentPrefix(path, prefix string) (string, bool) {
	i := strings.Index(path, prefix)
	if i < 0 {
		return "", false
	}
	return path[i+len(prefix):], true
}

// firstSegment returns the leading run of characters up to the first
// '/', '?' or '&'.
func firstSegment(s string) string {
	if i := strings.IndexAny(s, "/?&"); i >= 0 {
		return s[:i]
	}
	return s
}
