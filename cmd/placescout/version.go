package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Release builds inject these via -ldflags. When empty, the values embedded
// by the Go toolchain (module version, vcs.revision, vcs.time) are used.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildMetadata is the resolved version information printed by the version
// command.
type buildMetadata struct {
	version string
	commit  string
	date    string
}

// resolveBuildMetadata fills in any values not set at link time from
// debug.ReadBuildInfo, scanning the vcs settings in one pass.
func resolveBuildMetadata() buildMetadata {
	meta := buildMetadata{version: version, commit: commit, date: date}

	info, ok := debug.ReadBuildInfo()
	if ok {
		if meta.version == "" {
			meta.version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if meta.commit == "" {
					meta.commit = shortRevision(setting.Value)
				}
			case "vcs.time":
				if meta.date == "" {
					meta.date = setting.Value
				}
			}
		}
	}

	if meta.version == "" {
		meta.version = "(devel)"
	}
	if meta.commit == "" {
		meta.commit = "unknown"
	}
	if meta.date == "" {
		meta.date = "unknown"
	}
	return meta
}

// shortRevision abbreviates a full commit hash to seven characters.
func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// getVersion returns the resolved version string.
func getVersion() string {
	return resolveBuildMetadata().version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of placescout.`,
		Run: func(cmd *cobra.Command, _ []string) {
			meta := resolveBuildMetadata()
			fmt.Fprintf(cmd.OutOrStdout(), "placescout version %s\n", meta.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", meta.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", meta.date)
		},
	}
}
