package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/voyagen/tvgrab/internal/cache"
	"github.com/voyagen/tvgrab/internal/config"
	"github.com/voyagen/tvgrab/internal/fetcher"
	"github.com/voyagen/tvgrab/internal/registry"
	"github.com/voyagen/tvgrab/internal/runlock"
	"github.com/voyagen/tvgrab/internal/service"
	"github.com/voyagen/tvgrab/internal/store"
	"github.com/voyagen/tvgrab/internal/xmltv"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const runLockTTL = time.Hour

type options struct {
	ConfigFile   string `long:"config-file" default:"~/.xmltv/tv_grab_fi.conf" description:"Channel selection file"`
	Settings     string `long:"settings" env:"TVGRAB_SETTINGS" description:"YAML settings file (optional)"`
	Configure    bool   `long:"configure" description:"Download the channel list and create the channel selection file"`
	SelectAll    bool   `long:"select-all" description:"With --configure, activate every channel without asking"`
	ListChannels bool   `long:"list-channels" description:"Write an XMLTV document declaring every available channel"`
	Days         int    `long:"days" default:"14" description:"Grab N days"`
	Offset       int    `long:"offset" default:"0" description:"Skip the first N days"`
	Output       string `long:"output" description:"Write to this file rather than standard output"`
	LogLevel     string `long:"log-level" description:"Log level: debug, info, warn, error"`
	Version      bool   `long:"version" description:"Print the version and exit"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Version {
		fmt.Fprintf(stdout, "tvgrab %s\n", version)
		return 0
	}

	var cfg *config.Config
	var err error
	if opts.Settings != "" {
		cfg, err = config.LoadFromFile(opts.Settings)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	log := newLogger(stderr, cfg.LogLevel)

	configFile := expandHome(opts.ConfigFile)
	log.Info("using config file", "path", configFile)

	a := &app{
		cfg:    cfg,
		opts:   opts,
		log:    log,
		client: fetcher.NewClient(cfg.UserAgent, cfg.Timeout, cfg.Provider.Charset),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	switch {
	case opts.Configure:
		err = a.configure(ctx, configFile)
	case opts.ListChannels:
		err = a.listChannels(ctx)
	case opts.Days > 0:
		var ok bool
		ok, err = a.grab(ctx, configFile)
		if err == nil && !ok {
			log.Error("one or more errors occurred while parsing the data")
			return 1
		}
	}
	if err != nil {
		log.Error("tvgrab failed", "error", err)
		return 1
	}
	return 0
}

type app struct {
	cfg    *config.Config
	opts   options
	log    *slog.Logger
	client *fetcher.Client
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (a *app) configure(ctx context.Context, path string) error {
	channels, err := service.Discover(ctx, a.client, a.cfg.Provider, a.log)
	if err != nil {
		return err
	}
	var sel registry.Selector = newPrompt(a.stdin, a.stderr)
	if a.opts.SelectAll {
		sel = registry.SelectAll
	}
	reg, err := registry.Merge(channels, sel)
	if err != nil {
		return fmt.Errorf("select channels: %w", err)
	}
	if err := reg.SaveFile(path); err != nil {
		return err
	}
	a.log.Info("wrote configuration", "path", path, "channels", reg.Len(), "active", len(reg.Active()))
	return nil
}

func (a *app) listChannels(ctx context.Context) error {
	channels, err := service.Discover(ctx, a.client, a.cfg.Provider, a.log)
	if err != nil {
		return err
	}
	doc := xmltv.New(a.cfg.Provider)
	for _, ch := range channels {
		doc.AddChannel(ch)
	}
	return a.writeOutput(doc)
}

// grab reports ok=false when at least one cycle failed. The document is
// written either way.
func (a *app) grab(ctx context.Context, configFile string) (bool, error) {
	reg, err := registry.LoadFile(configFile)
	if err != nil {
		return false, err
	}
	channels := reg.Active()
	a.log.Info("found active channels", "count", len(channels))

	lock, err := a.acquireLock(ctx, configFile)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			a.log.Warn("release run lock", "error", err)
		}
	}()

	var history store.Store
	if a.cfg.HistoryDSN != "" {
		history, err = store.Open(ctx, a.cfg.HistoryDSN)
		if err != nil {
			return false, fmt.Errorf("history: %w", err)
		}
		defer history.Close()
	}

	doc := xmltv.New(a.cfg.Provider)
	for _, ch := range channels {
		doc.AddChannel(ch)
	}

	g := &service.Grabber{
		Provider:    a.cfg.Provider,
		Source:      a.client,
		Dumper:      service.NewDumper(a.cfg.DebugFile),
		History:     history,
		Log:         a.log,
		Concurrency: a.cfg.Concurrency,
	}
	res, runErr := g.Run(ctx, channels, doc, a.opts.Days, a.opts.Offset)
	a.log.Info("grab finished", "cycles", res.Cycles, "programmes", res.Programmes, "failures", res.Failures)

	if err := a.writeOutput(doc); err != nil {
		return false, err
	}
	if runErr != nil {
		return false, runErr
	}
	return res.OK(), nil
}

func (a *app) acquireLock(ctx context.Context, configFile string) (*runlock.Lock, error) {
	var rds *cache.Redis
	if a.cfg.RedisURL != "" {
		var err error
		rds, err = cache.New(a.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		// The lock's unlock func keeps using the client, so it lives for the process.
		if err := rds.Ping(ctx); err != nil {
			_ = rds.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}
	path := a.cfg.LockFile
	if path == "" {
		path = configFile + ".lock"
	}
	return runlock.Acquire(ctx, path, rds, runLockTTL)
}

func (a *app) writeOutput(doc *xmltv.Document) error {
	if a.opts.Output == "" {
		_, err := doc.WriteTo(a.stdout)
		return err
	}
	return doc.WriteFile(a.opts.Output)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
