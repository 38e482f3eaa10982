package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds element names, tags and view descriptions.
const maxNameLength = 256

// ValidateName checks an element name or workspace name. Names are display
// labels, so anything printable up to 256 bytes is fine; control characters
// are rejected because they break DOT labels and HCL strings.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return New(ErrCodeInvalidInput, "name cannot be empty")
	case len(name) > maxNameLength:
		return New(ErrCodeInvalidInput, "name too long (max %d bytes)", maxNameLength)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidInput, "name %q contains control characters", name)
	}
	return nil
}

// ValidateTag validates a tag label. Tags follow the same rules as names
// and additionally reject commas, which the workspace document uses as the
// tag separator.
func ValidateTag(tag string) error {
	if err := ValidateName(tag); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid tag")
	}
	if strings.Contains(tag, ",") {
		return New(ErrCodeInvalidInput, "tag %q cannot contain commas", tag)
	}
	return nil
}

// viewKeyRegex matches view keys usable as file names and URL path segments.
var viewKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateViewKey validates a view key. Keys end up in output file names
// ("ccp.svg") and in server routes ("/views/ccp.svg"), so they are limited
// to letters, digits, underscores and hyphens.
func ValidateViewKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "view key cannot be empty")
	}
	if len(key) > maxNameLength {
		return New(ErrCodeInvalidInput, "view key too long (max %d characters)", maxNameLength)
	}
	if !viewKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid view key %q: use letters, digits, '_' or '-'", key)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host, as used for
// theme locations and the workspace API.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
