package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"urlname/internal/clipboard"
	"urlname/internal/config"
	"urlname/internal/utils"

	"github.com/spf13/cobra"
)

// Version information - set via ldflags during build.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var rootCmd = newRootCmd()

// extractOptions carries the flag values of one invocation.
type extractOptions struct {
	verbose            bool
	batchFile          string
	defaultName        string
	outputDir          string
	clipboard          bool
	copyResult         bool
	jsonOutput         bool
	unique             bool
	contentDisposition string

	// settings is loaded once per invocation in PersistentPreRun.
	settings *config.Settings
}

// extraction is one line of --json output.
type extraction struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
	MIME     string `json:"mime,omitempty"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

func newRootCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "urlname [url]...",
		Short: "Derive safe local filenames from media URLs",
		Long: `urlname prints the filename a downloader should use for each URL: the last
path segment, percent-decoded, without query string or fragment, with .mp4
appended when no known media extension is present and with characters that
are invalid on common filesystems replaced by underscores.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetVerbose(opts.verbose)
			utils.SetDiagnosticsOutput(cmd.ErrOrStderr())
			opts.settings = loadSettings()
			initializeGlobalState(opts.settings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().StringVarP(&opts.batchFile, "batch", "b", "", "File containing URLs (one per line, - for stdin)")
	cmd.Flags().StringVarP(&opts.defaultName, "default", "d", "", "Filename used when none can be derived (default from settings)")
	cmd.Flags().StringVarP(&opts.outputDir, "dir", "o", "", "Print the absolute path inside this directory")
	cmd.Flags().BoolVar(&opts.clipboard, "clipboard", false, "Read URL from clipboard")
	cmd.Flags().BoolVar(&opts.copyResult, "copy", false, "Copy the resulting filename(s) to the clipboard")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print one JSON object per URL")
	cmd.Flags().BoolVar(&opts.unique, "unique", false, "Use a random UUID name instead of the default on fallback")
	cmd.Flags().StringVar(&opts.contentDisposition, "content-disposition", "", "Content-Disposition header value that takes precedence over the URL (single URL only)")
	cmd.SetVersionTemplate("urlname v{{.Version}}\n")

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	var urls []string
	urls = append(urls, args...)

	if opts.clipboard {
		u, err := clipboard.ReadURL()
		if err != nil {
			return err
		}
		utils.Debug("URL from clipboard: %s", u)
		urls = append(urls, u)
	}

	if opts.batchFile != "" {
		fileURLs, err := readURLsFromFile(opts.batchFile, cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading batch file: %w", err)
		}
		urls = append(urls, fileURLs...)
	}

	if len(urls) == 0 {
		return cmd.Help()
	}

	if opts.contentDisposition != "" && len(urls) > 1 {
		return errors.New("--content-disposition can only be used with a single URL")
	}

	policy, err := resolvePolicy(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := make([]string, 0, len(urls))
	for _, u := range urls {
		var res utils.Result
		if opts.contentDisposition != "" {
			header := http.Header{}
			header.Set("Content-Disposition", opts.contentDisposition)
			res = policy.FromContentDisposition(u, header)
		} else {
			res = policy.Extract(u)
		}
		utils.Debug("Extracted %q from %s (fallback=%t)", res.Filename, u, res.Fallback)

		name := utils.OutputPath(opts.outputDir, res.Filename)
		names = append(names, name)
		if err := writeResult(out, u, name, res, opts); err != nil {
			return err
		}
	}

	if opts.copyResult {
		if err := clipboard.WriteText(strings.Join(names, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// resolvePolicy layers command line overrides on top of the settings file.
func resolvePolicy(opts *extractOptions) (utils.Policy, error) {
	settings := opts.settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	policy := settings.Policy()

	if opts.defaultName != "" {
		if utils.SanitizeFilename(opts.defaultName) != opts.defaultName || strings.ContainsAny(opts.defaultName, `/\`) {
			return policy, fmt.Errorf("--default %q is not a safe filename", opts.defaultName)
		}
		policy.Default = opts.defaultName
	}
	if opts.unique {
		policy.UniqueFallback = true
	}
	return policy, nil
}

func writeResult(w io.Writer, rawurl, name string, res utils.Result, opts *extractOptions) error {
	if !opts.jsonOutput {
		_, err := fmt.Fprintln(w, name)
		return err
	}

	rec := extraction{
		URL:      rawurl,
		Filename: res.Filename,
		Fallback: res.Fallback,
		Reason:   res.Reason,
	}
	if opts.outputDir != "" {
		rec.Path = name
	}
	if mime, ok := utils.MediaType(res.Filename); ok {
		rec.MIME = mime
	}
	return json.NewEncoder(w).Encode(rec)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings reads the settings file, falling back to the defaults with a warning.
func loadSettings() *config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		utils.Warnf("ignoring settings: %v", err)
		return config.DefaultSettings()
	}
	return settings
}

// initializeGlobalState prepares the logs directory and prunes old debug logs.
func initializeGlobalState(settings *config.Settings) {
	utils.ConfigureDebug(config.GetLogsDir())
	utils.CleanupLogs(settings.General.LogRetentionCount)
}
