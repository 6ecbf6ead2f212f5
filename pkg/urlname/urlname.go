// Package urlname derives safe local filenames from media URLs.
//
// The derivation keeps only the last segment of the percent-decoded URL path,
// appends .mp4 when the segment lacks a known media extension and replaces
// < > : " | ? * with underscores. It never fails: when no segment can be
// recovered the configured default (video.mp4) is returned and a diagnostic
// is reported through the policy's Logger.
package urlname

import (
	"net/http"

	"urlname/internal/config"
	"urlname/internal/utils"
)

// Re-exported types keep internal packages private while giving embedders a
// stable surface.
type (
	Policy   = utils.Policy
	Result   = utils.Result
	Logger   = utils.Logger
	Settings = config.Settings
)

const (
	DefaultFilename    = utils.DefaultFilename
	ReasonEmptyPath    = utils.ReasonEmptyPath
	ReasonParseFailure = utils.ReasonParseFailure
)

// Discard is a Logger that drops all diagnostics.
var Discard Logger = utils.Discard

// MediaExtensions returns a copy of the default allow-list.
func MediaExtensions() []string {
	return append([]string(nil), utils.MediaExtensions...)
}

// DefaultPolicy returns the policy used by ExtractFilename.
func DefaultPolicy() Policy {
	return utils.DefaultPolicy()
}

// PolicyFromSettings loads the user's settings file and returns its policy.
// Unreadable settings fall back to DefaultPolicy together with the error.
func PolicyFromSettings() (Policy, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return DefaultPolicy(), err
	}
	return settings.Policy(), nil
}

// ExtractFilename returns a filesystem-safe filename for rawurl, or video.mp4.
func ExtractFilename(rawurl string) string {
	return utils.ExtractFilename(rawurl)
}

// ExtractFilenameOr is ExtractFilename with a caller chosen default.
func ExtractFilenameOr(rawurl, def string) string {
	return utils.ExtractFilenameOr(rawurl, def)
}

// FromResponseHeader prefers a Content-Disposition filename from header over the URL path.
func FromResponseHeader(rawurl string, header http.Header) string {
	return utils.DefaultPolicy().FromContentDisposition(rawurl, header).Filename
}

// Sanitize replaces the characters that are invalid on common filesystems.
func Sanitize(name string) string {
	return utils.SanitizeFilename(name)
}

// MediaType returns the MIME type of a name's media extension.
func MediaType(name string) (string, bool) {
	return utils.MediaType(name)
}
