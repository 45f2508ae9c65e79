package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/slipstream/tvrage/internal/api"
	"github.com/slipstream/tvrage/internal/config"
	"github.com/slipstream/tvrage/internal/logger"
	"github.com/slipstream/tvrage/internal/metadata"
	"github.com/slipstream/tvrage/internal/metadata/tvrage"
)

const usage = `usage: tvrage [flags] <command> [args]

commands:
  search <name>                     search shows by name
  show <id>                         show info
  episodes <id>                     full episode list
  episode <id> <season> <episode>   single episode info
  lookup <name>                     search, then show info for every hit
  serve                             run the HTTP API
  version                           print the version

flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	// .env is optional
	_ = godotenv.Load()

	fs := flag.NewFlagSet("tvrage", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	output := fs.String("output", "json", "Output format: json or yaml")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	cliLog := log.WithComponent("cli")
	cliLog.Debug().
		Str("version", config.Version).
		Strs("args", fs.Args()).
		Msg("Running command")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &app{
		cfg:     cfg,
		service: metadata.NewService(cfg.TVRage, log.Logger),
		logger:  log.Logger,
		out:     os.Stdout,
		format:  *output,
	}

	if err := cli.run(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
		}
		cliLog.Error().Err(err).Msg("Command failed")
		log.Close()
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	service *metadata.Service
	logger  zerolog.Logger
	out     io.Writer
	format  string
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if a.format != "json" && a.format != "yaml" {
		return fmt.Errorf("%w: unknown output format %q", errUsage, a.format)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "search":
		if len(rest) == 0 {
			return errUsage
		}
		shows, err := a.service.Search(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		return a.print(shows)

	case "show":
		ids, err := intArgs(rest, 1)
		if err != nil {
			return err
		}
		show, err := a.service.ShowInfo(ctx, ids[0])
		if err != nil {
			return err
		}
		return a.print(show)

	case "episodes":
		ids, err := intArgs(rest, 1)
		if err != nil {
			return err
		}
		list, err := a.service.EpisodeList(ctx, ids[0])
		if err != nil {
			return err
		}
		return a.print(list)

	case "episode":
		nums, err := intArgs(rest, 3)
		if err != nil {
			return err
		}
		ep, err := a.service.EpisodeInfo(ctx, nums[0], nums[1], nums[2])
		if err != nil {
			return err
		}
		return a.print(ep)

	case "lookup":
		if len(rest) == 0 {
			return errUsage
		}
		shows, err := a.lookup(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		return a.print(shows)

	case "serve":
		server := api.NewServer(a.cfg, a.service, a.logger)
		return server.Start(ctx, a.cfg.Server.Address())

	case "version":
		_, err := fmt.Fprintf(a.out, "tvrage %s (%s)\n", config.Version, a.service.String())
		return err

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// lookup searches by name and fetches show info for every hit in parallel.
// Results keep search order; the first failing fetch cancels the rest.
func (a *app) lookup(ctx context.Context, name string) ([]tvrage.Record, error) {
	hits, err := a.service.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	shows := make([]tvrage.Record, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	for i, hit := range hits {
		id := hit.Int("showid")
		if id <= 0 {
			shows[i] = hit
			continue
		}
		g.Go(func() error {
			show, err := a.service.ShowInfo(gctx, id)
			if err != nil {
				return fmt.Errorf("show %d: %w", id, err)
			}
			shows[i] = show
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shows, nil
}

func (a *app) print(v any) error {
	if a.format == "yaml" {
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func intArgs(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, errUsage
	}
	out := make([]int, n)
	for i, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errUsage, s)
		}
		out[i] = v
	}
	return out, nil
}
