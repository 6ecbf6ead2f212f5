package utils

// Package utils provides the helpers shared by the CLI and the public package.
// It holds the URL-to-filename derivation and the process diagnostics channel.

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/vfaronov/httpheader"
)

const (
	// DefaultFilename is returned when no usable name can be derived from a URL.
	DefaultFilename = "video.mp4"
	// DefaultAppendExt is concatenated to names without an allow-listed extension.
	DefaultAppendExt = ".mp4"
)

// Fallback reasons reported in Result.Reason.
const (
	ReasonEmptyPath    = "empty-path"
	ReasonParseFailure = "parse-failure"
)

// MediaExtensions is the default allow-list, lower case with the leading dot.
var MediaExtensions = []string{".mp4", ".mp3", ".wav", ".mov", ".avi", ".mkv", ".webm"}

// paramSchemes are the schemes whose last path segment may carry ";params".
var paramSchemes = map[string]bool{
	"": true, "ftp": true, "hdl": true, "prospero": true, "http": true, "imap": true,
	"https": true, "shttp": true, "rtsp": true, "rtsps": true, "rtspu": true, "sip": true,
	"sips": true, "mms": true, "sftp": true, "tel": true,
}

var lineBreaks = strings.NewReplacer("\t", "", "\r", "", "\n", "")

var invalidChars = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// Policy controls how a filename is derived. The zero value uses the defaults.
type Policy struct {
	Default        string
	Extensions     []string
	AppendExt      string
	UniqueFallback bool
	Logger         Logger
}

// Result always carries a filename; Fallback reports whether it is the default.
type Result struct {
	Filename string
	Fallback bool
	Reason   string
}

// DefaultPolicy returns the policy used by ExtractFilename.
func DefaultPolicy() Policy {
	return Policy{
		Default:    DefaultFilename,
		Extensions: append([]string(nil), MediaExtensions...),
		AppendExt:  DefaultAppendExt,
		Logger:     Diagnostics,
	}
}

func (p Policy) normalized() Policy {
	if p.Default == "" {
		p.Default = DefaultFilename
	}
	if p.Extensions == nil {
		p.Extensions = MediaExtensions
	}
	if p.AppendExt == "" {
		p.AppendExt = DefaultAppendExt
	}
	if p.Logger == nil {
		p.Logger = Diagnostics
	}
	return p
}

// ExtractFilename derives a filesystem-safe filename from rawurl, falling back to video.mp4.
func ExtractFilename(rawurl string) string {
	return DefaultPolicy().Extract(rawurl).Filename
}

// ExtractFilenameOr is ExtractFilename with a caller supplied fallback name.
func ExtractFilenameOr(rawurl, def string) string {
	p := DefaultPolicy()
	p.Default = def
	return p.Extract(rawurl).Filename
}

// Extract takes the last segment of the decoded URL path, ensures it carries an
// allow-listed extension and replaces characters that are invalid on common
// filesystems. Query and fragment never reach the result. It never fails: an
// unparsable URL or an empty segment yields the policy default.
func (p Policy) Extract(rawurl string) Result {
	p = p.normalized()

	parsed, err := url.Parse(cleanURL(rawurl))
	if err != nil {
		p.Logger.Errorf("failed to extract filename: %v", err)
		return p.fallback(ReasonParseFailure)
	}

	// Work on the escaped form so an encoded ";" is not taken as a params separator.
	raw := parsed.EscapedPath()
	if parsed.Opaque != "" {
		raw = parsed.Opaque
	}
	if paramSchemes[strings.ToLower(parsed.Scheme)] {
		raw = stripParams(raw)
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		p.Logger.Errorf("failed to extract filename: %v", err)
		return p.fallback(ReasonParseFailure)
	}

	name := lastSegment(decoded)
	if name == "" {
		p.Logger.Warnf("could not extract filename from URL %q", rawurl)
		return p.fallback(ReasonEmptyPath)
	}

	return Result{Filename: p.finish(name)}
}

// FromContentDisposition prefers the filename carried by a Content-Disposition
// header and otherwise behaves like Extract. The header name goes through the
// same extension and character rules as a URL segment.
func (p Policy) FromContentDisposition(rawurl string, header http.Header) Result {
	p = p.normalized()
	if _, name, _ := httpheader.ContentDisposition(header); name != "" {
		name = lastSegment(strings.ReplaceAll(name, "\\", "/"))
		if name != "" {
			Debug("Filename from Content-Disposition: %s", name)
			return Result{Filename: p.finish(name)}
		}
	}
	return p.Extract(rawurl)
}

func (p Policy) finish(name string) string {
	if !HasAllowedExt(name, p.Extensions) {
		p.Logger.Warnf("filename %q has unexpected extension, adding %s", name, p.AppendExt)
		name += p.AppendExt
	}
	return SanitizeFilename(name)
}

func (p Policy) fallback(reason string) Result {
	name := p.Default
	if p.UniqueFallback {
		name = uuid.NewString() + path.Ext(p.Default)
	}
	return Result{Filename: name, Fallback: true, Reason: reason}
}

// cleanURL drops leading control characters and spaces, and every tab, CR and LF,
// which pasted URLs commonly carry.
func cleanURL(rawurl string) string {
	rawurl = strings.TrimLeftFunc(rawurl, func(r rune) bool { return r <= ' ' })
	return lineBreaks.Replace(rawurl)
}

// stripParams cuts ";params" off the last path segment.
func stripParams(p string) string {
	start := strings.LastIndex(p, "/") + 1
	if i := strings.Index(p[start:], ";"); i >= 0 {
		return p[:start+i]
	}
	return p
}

func lastSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// HasAllowedExt reports whether name ends with one of exts, ignoring case.
func HasAllowedExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// SanitizeFilename replaces each of < > : " | ? * with an underscore.
// No other character is touched.
func SanitizeFilename(name string) string {
	return invalidChars.Replace(name)
}

// MediaType returns the MIME type registered for name's extension.
func MediaType(name string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if ext == "" {
		return "", false
	}
	kind := filetype.GetType(ext)
	if kind == filetype.Unknown {
		return "", false
	}
	return kind.MIME.Value, true
}
