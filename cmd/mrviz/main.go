package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/san-kum/mrviz/internal/config"
	"github.com/san-kum/mrviz/internal/mapreduce"
	"github.com/san-kum/mrviz/internal/scenario"
	"github.com/san-kum/mrviz/internal/sequencer"
	"github.com/san-kum/mrviz/internal/trace"
	"github.com/san-kum/mrviz/internal/viz"
	"github.com/san-kum/mrviz/internal/web"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	host       string
	port       int
	mapStep    int
	stageGap   int
	chipStep   int
	preset     string
	theme      string
	logFile    string
	asJSON     bool
	plot       bool
)

// main registers the mrviz commands and runs the web server when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "mrviz",
		Short:         "animated MapReduce word count",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.IntVar(&mapStep, "map-step", config.DefaultMapStepMs, "delay before each map chip (ms)")
	pf.IntVar(&stageGap, "stage-gap", config.DefaultStageGapMs, "pause between stages (ms)")
	pf.IntVar(&chipStep, "chip-step", config.DefaultChipStepMs, "delay between shuffle/reduce chips (ms)")
	addServeFlags(rootCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the animated page over http",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addServeFlags(serveCmd)

	playCmd := &cobra.Command{
		Use:   "play [text]",
		Short: "animate in the terminal",
		RunE:  runPlay,
	}
	playCmd.Flags().StringVar(&preset, "preset", "", "use a sample text preset")
	playCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	playCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while playing")

	traceCmd := &cobra.Command{
		Use:   "trace [text]",
		Short: "print the timeline of view updates",
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVar(&preset, "preset", "", "use a sample text preset")
	traceCmd.Flags().BoolVar(&asJSON, "json", false, "write the trace as json")
	traceCmd.Flags().BoolVar(&plot, "plot", false, "plot word counts")

	countCmd := &cobra.Command{
		Use:   "count [text]",
		Short: "print map, shuffle and reduce results",
		RunE:  runCount,
	}
	countCmd.Flags().StringVar(&preset, "preset", "", "use a sample text preset")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list sample text presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				text, _ := config.GetPreset(name)
				fmt.Printf("  %-10s %s\n", name, preview(text, 60))
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "write the default config to --config",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	})

	rootCmd.AddCommand(serveCmd, playCmd, traceCmd, countCmd, scenarioCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "bind address")
	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "listen port")
}

func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "mrviz",
		Level:           level,
	}), nil
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = host
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("map-step") {
		cfg.Timing.MapStepMs = mapStep
	}
	if flags.Changed("stage-gap") {
		cfg.Timing.StageGapMs = stageGap
	}
	if flags.Changed("chip-step") {
		cfg.Timing.ChipStepMs = chipStep
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := viz.LookupTheme(cfg.Theme); !ok {
		return nil, fmt.Errorf("unknown theme: %s (available: %v)", cfg.Theme, viz.ThemeNames())
	}
	return cfg, nil
}

func timingOf(cfg *config.Config) sequencer.Timing {
	return sequencer.Timing{
		MapStep:  cfg.Timing.MapStep(),
		StageGap: cfg.Timing.StageGap(),
		ChipStep: cfg.Timing.ChipStep(),
	}
}

// inputText picks positional args, then --preset, then the configured text.
func inputText(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if preset != "" {
		text, ok := config.GetPreset(preset)
		if !ok {
			return "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return text, nil
	}
	return cfg.Text, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	srv, err := web.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := inputText(cfg, args)
	if err != nil {
		return err
	}

	out := io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger, err := newLogger(out)
	if err != nil {
		return err
	}

	p := viz.NewPlayer(text, timingOf(cfg),
		viz.WithTheme(cfg.Theme),
		viz.WithAutoRun(),
		viz.WithLogger(logger),
	)
	return viz.Run(p)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := inputText(cfg, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	tr := trace.Play(text, timingOf(cfg), logger)

	if asJSON {
		return tr.WriteJSON(os.Stdout)
	}

	fmt.Printf("Text: %s\n\n", preview(text, 72))
	if err := trace.WriteTable(os.Stdout, tr.Events); err != nil {
		return err
	}
	fmt.Printf("\n%d events in %dms\n", len(tr.Events), tr.Duration.Milliseconds())

	if plot && tr.Session != nil {
		if g := trace.Plot(tr.Session.Results, 60, 10); g != "" {
			fmt.Println()
			fmt.Println(g)
		}
	}
	return nil
}

func runCount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := inputText(cfg, args)
	if err != nil {
		return err
	}

	pairs := mapreduce.Emit(mapreduce.Tokenize(text))
	groups := mapreduce.Group(pairs)
	results := mapreduce.Reduce(groups)

	emitted := make([]string, len(pairs))
	for i, p := range pairs {
		emitted[i] = p.String()
	}
	fmt.Printf("Map: %d pairs\n  %s\n", len(pairs), strings.Join(emitted, " "))
	fmt.Println("\nShuffle/Sort:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range mapreduce.ShuffleOrder(groups) {
		fmt.Fprintf(w, "  %s\t%v\n", k, groups[k])
	}
	w.Flush()

	fmt.Println("\nReduce:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  WORD\tCOUNT")
	for _, k := range mapreduce.ReduceOrder(results) {
		fmt.Fprintf(w, "  %s\t%d\n", k, results[k])
	}
	return w.Flush()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("config init needs --config <path>")
	}
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}
	if err := config.Save(configFile, config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("wrote default config to %s\n", configFile)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	res, err := sc.Play(timingOf(cfg), logger)
	if err != nil {
		return err
	}

	fmt.Printf("Scenario: %s\n", res.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	fmt.Println()
	if err := trace.WriteTable(os.Stdout, res.Events); err != nil {
		return err
	}
	fmt.Printf("\nruns accepted: %d  rejected: %d  final stage: %s  at %dms\n",
		res.Accepted, res.Rejected, res.Final, res.Duration.Milliseconds())
	return nil
}

func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "(empty)"
	}
	r := []rune(text)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return text
}
