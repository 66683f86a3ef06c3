package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/overitall/overitall/internal/oitipc"
)

const ipcTimeout = 2 * time.Second

// send resolves the socket path relative to the current working
// directory, issues req, and prints the pretty-printed response JSON,
// exiting 1 when the response reports failure (spec §6).
func send(command string, args interface{}) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	socketPath := filepath.Join(cwd, socketName)

	req := oitipc.Request{Command: command}
	if args != nil {
		encoded, err := json.Marshal(args)
		if err != nil {
			return err
		}
		req.Args = encoded
	}

	resp, err := oitipc.Send(socketPath, req, ipcTimeout)
	if err != nil {
		return fmt.Errorf("oit: no running instance at %s: %w", socketPath, err)
	}

	pretty, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))

	if !resp.Success {
		os.Exit(1)
	}
	return nil
}

// ipcCommands builds every subcommand that speaks to a running instance
// (spec §6's CLI surface).
func ipcCommands() []*cobra.Command {
	var (
		logsLimit, logsOffset   int
		searchLimit             int
		caseSensitive           bool
		before, after           int
		lines                   int
		excludeFlag             bool
		errorsLimit             int
		level                   string
		process                 string
		scrollFlag              bool
	)

	ping := &cobra.Command{Use: "ping", RunE: func(*cobra.Command, []string) error {
		return send("ping", nil)
	}}
	status := &cobra.Command{Use: "status", RunE: func(*cobra.Command, []string) error {
		return send("status", nil)
	}}
	processes := &cobra.Command{Use: "processes", RunE: func(*cobra.Command, []string) error {
		return send("processes", nil)
	}}
	commandsCmd := &cobra.Command{Use: "commands", RunE: func(*cobra.Command, []string) error {
		return send("help", nil)
	}}
	trace := &cobra.Command{Use: "trace", RunE: func(*cobra.Command, []string) error {
		return send("trace", nil)
	}}
	filters := &cobra.Command{Use: "filters", RunE: func(*cobra.Command, []string) error {
		return send("filters", nil)
	}}
	filterClear := &cobra.Command{Use: "filter-clear", RunE: func(*cobra.Command, []string) error {
		return send("filter_clear", nil)
	}}
	visibility := &cobra.Command{Use: "visibility", RunE: func(*cobra.Command, []string) error {
		return send("visibility", nil)
	}}
	summary := &cobra.Command{Use: "summary", RunE: func(*cobra.Command, []string) error {
		return send("summary", nil)
	}}

	logs := &cobra.Command{Use: "logs", RunE: func(*cobra.Command, []string) error {
		return send("logs", map[string]any{"limit": logsLimit, "offset": logsOffset})
	}}
	logs.Flags().IntVar(&logsLimit, "limit", 100, "maximum lines to return")
	logs.Flags().IntVar(&logsOffset, "offset", 0, "offset from the oldest retained line")

	search := &cobra.Command{Use: "search <pattern>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("search", map[string]any{"pattern": a[0], "limit": searchLimit, "case_sensitive": caseSensitive})
	}}
	search.Flags().IntVar(&searchLimit, "limit", 0, "maximum matches to return")
	search.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case-sensitively")

	selectCmd := &cobra.Command{Use: "select <id>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		id, err := strconv.ParseUint(a[0], 10, 64)
		if err != nil {
			return fmt.Errorf("select requires a numeric id: %w", err)
		}
		return send("select", map[string]any{"id": id})
	}}

	contextCmd := &cobra.Command{Use: "context <id>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		id, err := strconv.ParseUint(a[0], 10, 64)
		if err != nil {
			return fmt.Errorf("context requires a numeric id: %w", err)
		}
		return send("context", map[string]any{"id": id, "before": before, "after": after})
	}}
	contextCmd.Flags().IntVar(&before, "before", 5, "lines of context before")
	contextCmd.Flags().IntVar(&after, "after", 5, "lines of context after")

	gotoCmd := &cobra.Command{Use: "goto <id|time>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("goto", map[string]any{"target": a[0]})
	}}

	scroll := &cobra.Command{Use: "scroll <up|down|top|bottom>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("scroll", map[string]any{"direction": a[0], "lines": lines})
	}}
	scroll.Flags().IntVar(&lines, "lines", 1, "lines to scroll")

	freeze := &cobra.Command{Use: "freeze [on|off|toggle]", Args: cobra.MaximumNArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		mode := "toggle"
		if len(a) == 1 {
			mode = a[0]
		}
		return send("freeze", map[string]any{"mode": mode})
	}}

	filterAdd := &cobra.Command{Use: "filter-add <pattern>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("filter_add", map[string]any{"pattern": a[0], "exclude": excludeFlag})
	}}
	filterAdd.Flags().BoolVar(&excludeFlag, "exclude", false, "exclude instead of include")

	filterRemove := &cobra.Command{Use: "filter-remove <pattern>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("filter_remove", map[string]any{"pattern": a[0]})
	}}

	hide := &cobra.Command{Use: "hide <name>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("hide", map[string]any{"name": a[0]})
	}}
	show := &cobra.Command{Use: "show <name>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("show", map[string]any{"name": a[0]})
	}}

	restart := &cobra.Command{Use: "restart [name]", Aliases: []string{"r"}, Args: cobra.MaximumNArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("restart", map[string]any{"name": nameOrAll(a)})
	}}
	kill := &cobra.Command{Use: "kill [name]", Aliases: []string{"k"}, Args: cobra.MaximumNArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("kill", map[string]any{"name": nameOrAll(a)})
	}}
	start := &cobra.Command{Use: "start [name]", Aliases: []string{"s"}, Args: cobra.MaximumNArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		return send("start", map[string]any{"name": nameOrAll(a)})
	}}

	errorsCmd := &cobra.Command{Use: "errors", RunE: func(*cobra.Command, []string) error {
		return send("errors", map[string]any{"limit": errorsLimit, "level": level, "process": process})
	}}
	errorsCmd.Flags().IntVar(&errorsLimit, "limit", 50, "maximum lines to return")
	errorsCmd.Flags().StringVar(&level, "level", "error_or_warning", "error|warning|error_or_warning")
	errorsCmd.Flags().StringVar(&process, "process", "", "restrict to one process")

	batch := &cobra.Command{Use: "batch <id>", Args: cobra.ExactArgs(1), RunE: func(_ *cobra.Command, a []string) error {
		id, err := strconv.Atoi(a[0])
		if err != nil {
			return fmt.Errorf("batch requires a numeric id: %w", err)
		}
		return send("batch", map[string]any{"id": id, "scroll": scrollFlag})
	}}
	batch.Flags().BoolVar(&scrollFlag, "scroll", false, "scroll the view to the batch")

	return []*cobra.Command{
		ping, status, processes, commandsCmd, trace, filters, filterClear, visibility, summary,
		logs, search, selectCmd, contextCmd, gotoCmd, scroll, freeze,
		filterAdd, filterRemove, hide, show, restart, kill, start, errorsCmd, batch,
	}
}

func nameOrAll(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "all"
}
