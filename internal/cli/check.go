package cli

import (
	"fmt"
	"io"

	"urlname/internal/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successColor = lipgloss.Color("42")  // Green
	errorColor   = lipgloss.Color("160") // Red
	subtleColor  = lipgloss.Color("241") // Grey

	passBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(successColor).
			Padding(0, 1).
			Bold(true).
			SetString("PASS")

	failBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(errorColor).
			Padding(0, 1).
			Bold(true).
			SetString("FAIL")

	subtleStyle = lipgloss.NewStyle().Foreground(subtleColor)
)

type checkCase struct {
	url         string
	expected    string
	description string
}

// checkCases are URLs seen in production render and TTS pipelines.
var checkCases = []checkCase{
	{
		url:         "https://dashscope-result-sh.oss-cn-shanghai.aliyuncs.com/1d/cd/20251008/bd55ff35/c758a8f7-e488-4be0-aa83-7dbbf7ef9c6f.mp4?Expires=1759943296&OSSAccessKeyId=LTAI5tKPD3TMqf2Lna1fASuh&Signature=8xfXrd5sNyx4uBPqduw1%2Bd9J7aQ%3D",
		expected:    "c758a8f7-e488-4be0-aa83-7dbbf7ef9c6f.mp4",
		description: "URL with query parameters (Expires, OSSAccessKeyId, Signature)",
	},
	{
		url:         "https://example.com/video.mp4",
		expected:    "video.mp4",
		description: "Simple URL without parameters",
	},
	{
		url:         "https://example.com/my%20video.mp4",
		expected:    "my video.mp4",
		description: "URL with encoded spaces",
	},
	{
		url:         "https://assets.json2video.com/clients/ie2ZO4Au3E/renders/2025-10-06-04355.mp4",
		expected:    "2025-10-06-04355.mp4",
		description: "URL with multiple subdirectories",
	},
	{
		url:         "https://example.com/video.mp4#start=10",
		expected:    "video.mp4",
		description: "URL with fragment identifier",
	},
	{
		url:         "https://v3.fal.media/files/koala/R9xah-zpIWdujeJVfI_Lh_output.mp3",
		expected:    "R9xah-zpIWdujeJVfI_Lh_output.mp3",
		description: "Audio file URL",
	},
	{
		url:         "https://example.com/video",
		expected:    "video.mp4",
		description: "URL without file extension (default added)",
	},
	{
		url:         "https://v3.fal.media/files/zebra/m8xVxf5xojnXa8SB5oUnd_normalized_audio.wav",
		expected:    "m8xVxf5xojnXa8SB5oUnd_normalized_audio.wav",
		description: "WAV audio file",
	},
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the built-in URL examples against the extractor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := runChecks(cmd.OutOrStdout(), utils.DefaultPolicy(), checkCases)
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(checkCases))
			}
			return nil
		},
	}
}

// runChecks prints one block per case and returns the number of failures.
func runChecks(w io.Writer, policy utils.Policy, cases []checkCase) int {
	rule := subtleStyle.Render("================================================================================")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Testing URL Filename Extraction")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	passed, failed := 0, 0
	for i, c := range cases {
		fmt.Fprintf(w, "Test %d: %s\n", i+1, c.description)
		fmt.Fprintf(w, "  URL: %s\n", truncate(c.url, 80))

		got := policy.Extract(c.url).Filename

		fmt.Fprintf(w, "  Expected: %s\n", c.expected)
		fmt.Fprintf(w, "  Got:      %s\n", got)
		if got == c.expected {
			fmt.Fprintf(w, "  %s\n", passBadge.String())
			passed++
		} else {
			fmt.Fprintf(w, "  %s\n", failBadge.String())
			failed++
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Results: %d passed, %d failed out of %d tests\n", passed, failed, len(cases))
	fmt.Fprintln(w, rule)
	return failed
}

// truncate shortens s to n runes so multi-byte characters are never split.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
