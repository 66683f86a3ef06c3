package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/overitall/overitall/internal/logrecord"
	"github.com/overitall/overitall/internal/oitconfig"
	"github.com/overitall/overitall/internal/oitgroup"
	"github.com/overitall/overitall/internal/oitipc"
	"github.com/overitall/overitall/internal/oitlog"
	"github.com/overitall/overitall/internal/oitproc"
	"github.com/overitall/overitall/internal/oitstatus"
	"github.com/overitall/overitall/internal/oitui"
	"github.com/overitall/overitall/internal/oitupdate"
)

const socketName = ".oit.sock"

// runDaemon is the root command's RunE: with no subcommand, oit either
// writes a default config (--init) or loads one and starts supervising.
func runDaemon(cmd *cobra.Command, args []string) error {
	if initFlag {
		return writeDefaultConfig(configPath)
	}
	if withSkill {
		fmt.Println("skill generation is unavailable in this build")
		return nil
	}

	cfg, err := oitconfig.Load(configPath)
	if err != nil {
		return err
	}
	if procfilePath != "" {
		cfg.Procfile = procfilePath
	}

	procfileAbs := cfg.Procfile
	if !filepath.IsAbs(procfileAbs) {
		procfileAbs = filepath.Join(filepath.Dir(cfg.ConfigPath), procfileAbs)
	}
	procfile, err := oitconfig.LoadProcfile(procfileAbs)
	if err != nil {
		return err
	}

	// Log file paths (and process cwd) resolve against the Procfile's own
	// directory, not the config file's directory (spec §6 Log file
	// paths) — these differ whenever the procfile key points into a
	// subdirectory.
	procfileDir := filepath.Dir(procfileAbs)

	if err := cfg.Validate(procfile.ProcessNames()); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	socketPath := filepath.Join(cwd, socketName)

	if oitipc.AnotherInstanceOwnsSocket(socketPath) {
		return fmt.Errorf("another overitall instance already owns %s", socketPath)
	}

	log := oitlog.New(oitlog.Options{ConfigDir: filepath.Dir(cfg.ConfigPath), Version: version})

	ingest := make(chan logrecord.LogRecord, 1024)
	supervisor := oitproc.NewSupervisor(ingest)

	ignored := toSet(cfg.IgnoredProcesses)
	for _, name := range procfile.ProcessNames() {
		if _, skip := ignored[name]; skip {
			continue
		}
		command, _ := procfile.GetCommand(name)
		var statusCfg *oitstatus.Config
		if pc, ok := cfg.Processes[name]; ok && pc.Status != nil {
			statusCfg = &oitstatus.Config{
				Default:      pc.Status.Default,
				DefaultColor: pc.Status.Color,
				Transitions:  toTransitions(pc.Status.Transitions),
			}
		}
		if err := supervisor.Add(name, command, procfileDir, statusCfg); err != nil {
			return err
		}
	}

	groups := oitgroup.New(cfg.Groups, supervisor.ProcessNames())

	app := oitui.New(log, version, cfg, supervisor, ingest, groups)
	app.ProcessOrder = supervisor.ProcessNames()

	server, err := oitipc.NewServer(socketPath, log)
	if err != nil {
		return err
	}
	go server.Serve()
	app.AttachIPC(server)

	tailCtx, cancelTail := context.WithCancel(context.Background())
	defer cancelTail()
	startTailers(tailCtx, cfg, procfileDir, ingest)

	toStart := cfg.StartProcesses
	if len(toStart) == 0 {
		toStart = supervisor.ProcessNames()
	}
	for _, name := range toStart {
		if _, skip := ignored[name]; skip {
			continue
		}
		_ = supervisor.Start(name)
	}

	if !noUpdate && (forceUpdate || cfg.DisableAutoUpdate == nil || !*cfg.DisableAutoUpdate) {
		go checkForUpdate(log)
	}

	return app.Run()
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func toTransitions(cfgTransitions []oitconfig.StatusTransition) []oitstatus.Transition {
	out := make([]oitstatus.Transition, len(cfgTransitions))
	for i, t := range cfgTransitions {
		out[i] = oitstatus.Transition{Pattern: t.Pattern, Label: t.Label, Color: t.Color}
	}
	return out
}

func startTailers(ctx context.Context, cfg *oitconfig.Config, procfileDir string, ingest chan<- logrecord.LogRecord) {
	for _, lf := range cfg.LogFiles {
		path := lf.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(procfileDir, path)
		}
		tailer := oitproc.NewFileTailer(lf.Name, path, ingest)
		go func() {
			_ = tailer.Run(ctx)
		}()
	}
	for name, pc := range cfg.Processes {
		if pc.LogFile == "" {
			continue
		}
		path := pc.LogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(procfileDir, path)
		}
		tailer := oitproc.NewFileTailer(name, path, ingest)
		go func() {
			_ = tailer.Run(ctx)
		}()
	}
}

func checkForUpdate(log interface{ Warnf(string, ...interface{}) }) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := oitupdate.Check(ctx, "overitall/overitall", version)
	if err != nil {
		return
	}
	if result.UpdateAvailable {
		log.Warnf("overitall %s is available (running %s)", result.LatestVersion, result.CurrentVersion)
	}
}

func writeDefaultConfig(path string) error {
	cfg := &oitconfig.Config{
		Procfile: "Procfile",
	}
	return cfg.Save(path)
}
