package channel

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const siteOrigin = "https://www.youtube.com"

// NormalizeURL turns an author-link href into an absolute https channel URL
// without query, fragment or trailing slash. Relative hrefs ("/@handle")
// resolve against the site origin.
func NormalizeURL(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", errors.New("empty channel url")
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse channel url: %w", err)
	}
	if !u.IsAbs() {
		base, _ := url.Parse(siteOrigin)
		u = base.ResolveReference(u)
	}
	switch u.Scheme {
	case "http", "https":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("channel url %q has no host", href)
	}
	if u.Host == "youtube.com" || u.Host == "m.youtube.com" {
		u.Host = "www.youtube.com"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	if u.Path == "" {
		return "", fmt.Errorf("channel url %q has no path", href)
	}
	return u.String(), nil
}
