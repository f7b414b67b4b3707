package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildDetails is the resolved build metadata shown by the version command
// and the root --version flag.
type buildDetails struct {
	version string
	commit  string
	date    string
}

// String renders the single-line form: "v1.2.3 (commit abc1234, built ...)".
func (b buildDetails) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", b.version, b.commit, b.date)
}

// resolveBuildDetails fills in any field not set via ldflags from the module
// build info the Go toolchain records, with placeholder fallbacks.
func resolveBuildDetails() buildDetails {
	details := buildDetails{version: version, commit: commit, date: date}
	info, ok := debug.ReadBuildInfo()

	if details.version == "" {
		details.version = "(devel)"
		if ok && info.Main.Version != "" {
			details.version = info.Main.Version
		}
	}
	if details.commit == "" {
		details.commit = "unknown"
		if ok {
			if rev := buildSetting(info, "vcs.revision"); rev != "" {
				if len(rev) > 7 {
					rev = rev[:7]
				}
				details.commit = rev
			}
		}
	}
	if details.date == "" {
		details.date = "unknown"
		if ok {
			if t := buildSetting(info, "vcs.time"); t != "" {
				details.date = t
			}
		}
	}

	return details
}

// buildSetting returns the value of one build setting, or "".
func buildSetting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of epubscan.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "epubscan %s\n", resolveBuildDetails())
		},
	}
}
