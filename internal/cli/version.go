package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/satchelwallet/satchel/internal/output"
	"github.com/satchelwallet/satchel/internal/version"
)

const (
	// devVersionString is the string used for development versions
	devVersionString = "dev"
	// releaseOwner is the GitHub repository owner
	releaseOwner = "satchelwallet"
	// releaseRepo is the GitHub repository name
	releaseRepo = "satchel"
)

// BuildInfo carries the version metadata stamped into the binary at
// link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// buildInfo is set by Execute before any command runs.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var buildInfo BuildInfo

// versionCheck enables the remote release lookup.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var versionCheck bool

// versionCmd reports the running build and optionally checks GitHub
// for a newer release.
//
//nolint:gochecknoglobals // Cobra commands are conventionally package-level
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show the satchel version, commit, and build date.

With --check, also query GitHub for the latest published release and
report whether an upgrade is available.`,
	RunE: runVersion,
}

// CurrentVersion returns the version of the running binary, or "dev"
// for unstamped builds.
func CurrentVersion() string {
	if buildInfo.Version == "" {
		return devVersionString
	}
	return buildInfo.Version
}

func runVersion(cmd *cobra.Command, _ []string) error {
	current := CurrentVersion()
	platform := runtime.GOOS + "/" + runtime.GOARCH

	latest := ""
	updateAvailable := false
	if versionCheck {
		release, err := version.GetLatestRelease(cmd.Context(), releaseOwner, releaseRepo)
		if err != nil {
			return err
		}
		latest = version.Normalize(release.TagName)
		updateAvailable = version.IsNewer(current, latest)
	}

	w := cmd.OutOrStdout()
	if formatter.Format() == output.FormatJSON {
		result := map[string]any{
			"version":    current,
			"commit":     buildInfo.Commit,
			"date":       buildInfo.Date,
			"go_version": runtime.Version(),
			"platform":   platform,
		}
		if versionCheck {
			result["latest"] = latest
			result["update_available"] = updateAvailable
		}
		return writeJSON(w, result)
	}

	out(w, "satchel %s\n", current)
	if buildInfo.Commit != "" {
		out(w, "  commit: %s\n", buildInfo.Commit)
	}
	if buildInfo.Date != "" {
		out(w, "  built:  %s\n", buildInfo.Date)
	}
	out(w, "  go:     %s %s\n", runtime.Version(), platform)

	if versionCheck {
		out(w, "  latest: %s\n", latest)
		if updateAvailable {
			outln(w, "A newer release is available.")
		} else if version.IsDevBuild(current) {
			outln(w, "Running a development build.")
		} else {
			outln(w, "You are up to date.")
		}
	}

	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
