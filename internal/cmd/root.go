// Package cmd implements the CLI commands for the Tavnit template vault.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TavnitForms/tavnit-cli/internal/cli"
	"github.com/TavnitForms/tavnit-cli/internal/logger"
	"github.com/TavnitForms/tavnit-cli/internal/output"
	"github.com/TavnitForms/tavnit-cli/internal/progress"
	"github.com/TavnitForms/tavnit-cli/internal/sandbox"
	"github.com/TavnitForms/tavnit-cli/internal/store"
	"github.com/TavnitForms/tavnit-cli/internal/update"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const (
	devBaseURL        = "https://api.dev.tavnitforms.com"
	productionBaseURL = "https://api.tavnitforms.com"
)

// Theme flag values
const (
	themeAuto  = "auto"
	themeDark  = "dark"
	themeLight = "light"
)

var (
	token         string
	useDev        bool
	templatesDir  string
	exportsDir    string
	allowSymlinks bool
	format        string
	noProgress    bool
	failOn        []string
	exitCode      int
	pageLimit     int
	debug         bool
	logLevel      string
	colorFlag     string
	themeFlag     string
	noUpdateCheck bool

	version = "dev"
	commit  = "none"
	date    = "unknown"

	// updateResultCh receives the background update check result, if one was started.
	updateResultCh <-chan *update.CheckResult
)

// validFormats contains the valid output format strings.
var validFormats = []string{"human", "json", "sarif", "junit"}

var rootCmd = &cobra.Command{
	Use:     "tavnit-cli",
	Short:   "Tavnit template vault CLI",
	Long:    `CLI for managing, auditing and syncing Tavnit form template directories.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode := cli.ColorMode(colorFlag)
		switch mode {
		case cli.ColorModeAuto, cli.ColorModeAlways, cli.ColorModeNever:
		default:
			return fmt.Errorf("invalid --color value %q: must be auto, always, or never", colorFlag)
		}

		switch themeFlag {
		case themeAuto, themeDark, themeLight:
		default:
			return fmt.Errorf("invalid --theme value %q: must be auto, dark, or light", themeFlag)
		}

		if _, err := output.GetFormatter(format); err != nil {
			return fmt.Errorf("invalid --format value %q: must be one of %v", format, validFormats)
		}

		// exit-code 0 defeats --fail-on, >255 is invalid POSIX
		if exitCode < 1 || exitCode > 255 {
			return fmt.Errorf("invalid --exit-code value %d: must be between 1 and 255", exitCode)
		}

		cli.InitColors(mode)
		switch themeFlag {
		case themeDark:
			lipgloss.SetHasDarkBackground(true)
		case themeLight:
			lipgloss.SetHasDarkBackground(false)
		}
		output.SyncStylesWithColorMode()

		logger.Init(resolveLogLevel())

		// Kick off a background update check unless disabled or pointless
		if !noUpdateCheck && version != "dev" && !progress.IsCI() && updateResultCh == nil {
			updateResultCh = update.NewChecker(version).CheckInBackground(cmd.Context())
		}

		return nil
	},
}

// SetVersion wires build metadata into the root command.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TAVNIT_API_TOKEN"), "API token for authentication (env: TAVNIT_API_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&useDev, "dev", false, "Use development environment instead of production")
	rootCmd.PersistentFlags().StringVar(&templatesDir, "templates-dir", os.Getenv("TAVNIT_TEMPLATES_DIR"), "Template directory (env: TAVNIT_TEMPLATES_DIR)")
	rootCmd.PersistentFlags().StringVar(&exportsDir, "exports-dir", os.Getenv("TAVNIT_EXPORTS_DIR"), "Export directory (env: TAVNIT_EXPORTS_DIR)")
	rootCmd.PersistentFlags().BoolVar(&allowSymlinks, "allow-symlinks", false, "Permit symbolic links inside template directories")
	rootCmd.PersistentFlags().StringVar(&format, "format", getEnvOrDefault("TAVNIT_FORMAT", "human"), "Output format: human, json, sarif, junit")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable progress indicators and spinners")
	rootCmd.PersistentFlags().StringSliceVar(&failOn, "fail-on", []string{"CRITICAL"}, "Fail build on severity levels (comma-separated): INFO, LOW, MEDIUM, HIGH, CRITICAL")
	rootCmd.PersistentFlags().IntVar(&exitCode, "exit-code", 1, "Exit code to return when build fails")
	rootCmd.PersistentFlags().IntVar(&pageLimit, "page-limit", getEnvOrDefaultInt("TAVNIT_PAGE_LIMIT", 500), "Results page size for pagination (range: 1-1000)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", getEnvOrDefault("TAVNIT_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", getEnvOrDefault("TAVNIT_COLOR", "auto"), "Color output mode: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", getEnvOrDefault("TAVNIT_THEME", themeAuto), "Terminal theme for adaptive colors: auto, dark, light")
	rootCmd.PersistentFlags().BoolVar(&noUpdateCheck, "no-update-check", false, "Skip checking for newer releases")

	SetupHelp(rootCmd)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func resolveLogLevel() string {
	if debug {
		return "debug"
	}
	return logLevel
}

func getAPIBaseURL() string {
	if useDev {
		return devBaseURL
	}
	return productionBaseURL
}

func getToken() (string, error) {
	if token == "" {
		return "", fmt.Errorf("API token required: use --token flag or TAVNIT_API_TOKEN environment variable")
	}
	return token, nil
}

func getPageLimit() (int, error) {
	if err := validatePageLimit(pageLimit); err != nil {
		return 0, err
	}
	return pageLimit, nil
}

func validatePageLimit(limit int) error {
	if limit < 1 || limit > 1000 {
		return fmt.Errorf("page limit must be between 1 and 1000, got %d", limit)
	}
	return nil
}

// validSeverities are the accepted --fail-on values.
var validSeverities = map[string]bool{
	"INFO":     true,
	"LOW":      true,
	"MEDIUM":   true,
	"HIGH":     true,
	"CRITICAL": true,
}

func validateFailOn(severities []string) error {
	for _, s := range severities {
		if !validSeverities[strings.ToUpper(s)] {
			return fmt.Errorf("invalid --fail-on severity %q: must be one of INFO, LOW, MEDIUM, HIGH, CRITICAL", s)
		}
	}
	return nil
}

func getFailOn() ([]string, error) {
	if err := validateFailOn(failOn); err != nil {
		return nil, err
	}
	normalized := make([]string, len(failOn))
	for i, s := range failOn {
		normalized[i] = strings.ToUpper(s)
	}
	return normalized, nil
}

// getTemplatesDir resolves the template directory: flag, env, or the
// per-user default under the OS config dir.
func getTemplatesDir() (string, error) {
	return resolveDir(templatesDir, "templates")
}

// getExportsDir resolves the export directory the same way.
func getExportsDir() (string, error) {
	return resolveDir(exportsDir, "exports")
}

func resolveDir(flagValue, defaultName string) (string, error) {
	dir := flagValue
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine config directory: %w", err)
		}
		dir = filepath.Join(configDir, "tavnit", defaultName)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve directory %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("cannot create directory %q: %w", abs, err)
	}
	return abs, nil
}

// newSanitizer builds the path sanitizer over the configured directories.
func newSanitizer() (*sandbox.Sanitizer, string, string, error) {
	tdir, err := getTemplatesDir()
	if err != nil {
		return nil, "", "", err
	}
	edir, err := getExportsDir()
	if err != nil {
		return nil, "", "", err
	}
	s, err := sandbox.New(sandbox.Config{
		Bases:         []string{tdir, edir},
		AllowSymlinks: allowSymlinks,
	})
	if err != nil {
		return nil, "", "", err
	}
	return s, tdir, edir, nil
}

// newStore builds the template store over the configured directories.
func newStore() (*store.Store, error) {
	s, tdir, edir, err := newSanitizer()
	if err != nil {
		return nil, err
	}
	return store.New(s, tdir, edir, noProgress)
}

// PrintUpdateNotification prints a pending update notification, if the
// background check produced one. Non-blocking.
func PrintUpdateNotification() {
	if updateResultCh == nil {
		return
	}
	select {
	case result, ok := <-updateResultCh:
		if ok && result != nil {
			fmt.Fprint(os.Stderr, update.FormatNotification(result.CurrentVersion, result.LatestVersion, output.IconTemplate))
		}
	default:
		// Check still in flight; skip rather than delay exit
	}
}
