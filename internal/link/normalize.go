package link

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidDestination is returned for destinations that cannot be
// parsed as a URL even after scheme injection.
var ErrInvalidDestination = errors.New("invalid destination url")

// NormalizeDestination turns user input into an absolute URL. Inputs
// without a scheme get https injected.
func NormalizeDestination(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidDestination
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrInvalidDestination
	}

	return u.String(), nil
}
