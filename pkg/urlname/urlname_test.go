package urlname_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlname/pkg/urlname"
)

func TestExtractFilename(t *testing.T) {
	cases := map[string]string{
		"https://host/path/c758a8f7-e488-4be0-aa83-7dbbf7ef9c6f.mp4?Expires=1&Sig=x": "c758a8f7-e488-4be0-aa83-7dbbf7ef9c6f.mp4",
		"https://example.com/video.mp4":                                              "video.mp4",
		"https://example.com/my%20video.mp4":                                         "my video.mp4",
		"https://example.com/video.mp4#start=10":                                     "video.mp4",
		"https://example.com/video":                                                  "video.mp4",
		"https://a.b/files/output.mp3":                                               "output.mp3",
	}
	for in, want := range cases {
		assert.Equal(t, want, urlname.ExtractFilename(in), in)
	}
}

func TestExtractFilenameOr(t *testing.T) {
	p := urlname.DefaultPolicy()
	p.Logger = urlname.Discard
	p.Default = "take.wav"

	res := p.Extract("https://example.com/")
	assert.Equal(t, urlname.Result{Filename: "take.wav", Fallback: true, Reason: urlname.ReasonEmptyPath}, res)
	assert.Equal(t, "take.wav", urlname.ExtractFilenameOr("https://example.com/%zz", "take.wav"))
}

func TestFromResponseHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Disposition", `attachment; filename*=UTF-8''clip%20one.webm`)
	assert.Equal(t, "clip one.webm", urlname.FromResponseHeader("https://example.com/dl?id=1", h))
}

func TestSanitizeAndMediaType(t *testing.T) {
	assert.Equal(t, "a_b.mp4", urlname.Sanitize("a?b.mp4"))
	mime, ok := urlname.MediaType("x.webm")
	require.True(t, ok)
	assert.Equal(t, "video/webm", mime)
	assert.Len(t, urlname.MediaExtensions(), 7)
}

func TestPolicyFromSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("URLNAME_CONFIG_DIR", dir)

	p, err := urlname.PolicyFromSettings()
	require.NoError(t, err)
	assert.Equal(t, urlname.DefaultFilename, p.Default)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"filename":{"default":"x?.mp4"}}`), 0o644))
	p, err = urlname.PolicyFromSettings()
	assert.Error(t, err)
	assert.Equal(t, urlname.DefaultFilename, p.Default)
}
