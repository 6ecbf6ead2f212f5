package clipboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ExtractURL(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://example.com/my%20video.mp4", want: "https://example.com/my%20video.mp4"},
		{in: "  http://example.com/a.mp3?x=1  ", want: "http://example.com/a.mp3?x=1"},
		{in: "HTTPS://example.com/a.mp4", want: "HTTPS://example.com/a.mp4"},
		{in: "", want: ""},
		{in: "ftp://example.com/a.mp4", want: ""},
		{in: "javascript:alert(1)", want: ""},
		{in: "https:///no-host.mp4", want: ""},
		{in: "https://example.com/a.mp4\nhttps://example.com/b.mp4", want: ""},
		{in: "https://example.com/" + strings.Repeat("a", maxURLLength), want: ""},
		{in: "https://example.com/bad%zz", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.ExtractURL(tt.in), tt.in)
	}
}

func stubClipboard(t *testing.T, content string, readErr, writeErr error) *string {
	t.Helper()
	var written string
	origRead, origWrite := readAll, writeAll
	readAll = func() (string, error) { return content, readErr }
	writeAll = func(s string) error {
		written = s
		return writeErr
	}
	t.Cleanup(func() { readAll, writeAll = origRead, origWrite })
	return &written
}

func TestReadURL(t *testing.T) {
	stubClipboard(t, " https://example.com/video.mp4 ", nil, nil)
	u, err := ReadURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/video.mp4", u)
}

func TestReadURL_Errors(t *testing.T) {
	stubClipboard(t, "not a url", nil, nil)
	_, err := ReadURL()
	assert.ErrorIs(t, err, ErrInvalidURL)

	stubClipboard(t, "", errors.New("no display"), nil)
	_, err = ReadURL()
	assert.ErrorIs(t, err, ErrClipboardRead)
	assert.Contains(t, err.Error(), "no display")
}

func TestWriteText(t *testing.T) {
	written := stubClipboard(t, "", nil, nil)
	require.NoError(t, WriteText("video.mp4"))
	assert.Equal(t, "video.mp4", *written)

	stubClipboard(t, "", nil, errors.New("no display"))
	err := WriteText("video.mp4")
	assert.ErrorIs(t, err, ErrClipboardWrite)
	assert.Contains(t, err.Error(), "no display")
}
