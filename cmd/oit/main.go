// Command oit is both the supervisor daemon (run with no subcommand from
// a directory holding a Procfile) and the CLI client that speaks to an
// already-running instance over its IPC socket.
//
// Grounded on lazydocker's main.go for the build-info/version lookup via
// debug.ReadBuildInfo and samber/lo.Find, replacing its flaggy-based
// parsing with spf13/cobra for the larger subcommand surface this binary
// needs.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const defaultVersion = "unversioned"

var (
	commit  string
	version = defaultVersion

	configPath  string
	procfilePath string
	initFlag    bool
	withSkill   bool
	noUpdate    bool
	forceUpdate bool
)

func main() {
	resolveBuildInfo()

	root := &cobra.Command{
		Use:     "oit",
		Short:   "Supervises and multiplexes the logs of long-running development processes",
		Version: version,
		RunE:    runDaemon,
	}

	root.PersistentFlags().StringVar(&configPath, "config", ".overitall.toml", "path to the TOML config file")
	root.PersistentFlags().StringVar(&procfilePath, "file", "", "path to the Procfile (overrides the config's procfile key)")
	root.Flags().BoolVar(&initFlag, "init", false, "write a default config file and exit")
	root.Flags().BoolVar(&withSkill, "with-skill", false, "generate an editor/AI-assistant skill file (unavailable in this build)")
	root.Flags().BoolVar(&noUpdate, "no-update", false, "skip the startup update check")
	root.Flags().BoolVar(&forceUpdate, "update", false, "force an update check even if disabled in config")

	root.AddCommand(ipcCommands()...)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveBuildInfo() {
	if version != defaultVersion {
		return
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	revision, ok := lo.Find(buildInfo.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	if ok {
		commit = revision.Value
		if len(commit) > 7 {
			version = commit[:7]
		} else {
			version = commit
		}
	}
}
