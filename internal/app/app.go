package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/cwlogs/internal/cloudwatch"
	"github.com/five82/cwlogs/internal/config"
	"github.com/five82/cwlogs/internal/extract"
	"github.com/five82/cwlogs/internal/fetch"
	"github.com/five82/cwlogs/internal/logging"
	"github.com/five82/cwlogs/internal/state"
	"github.com/five82/cwlogs/internal/ui"
)

// Options configure the cwlogs application. Non-empty flags override the
// config file.
type Options struct {
	ConfigPath string
	Region     string
	Profile    string
	// Demo serves generated log groups instead of calling AWS.
	Demo bool
}

// Run boots the dashboard until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Region != "" {
		cfg.Region = opts.Region
	}
	if opts.Profile != "" {
		cfg.Profile = opts.Profile
	}

	logger, closer, err := logging.Setup(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	extractor, err := extract.New(extractSpecs(cfg.Extracts))
	if err != nil {
		return fmt.Errorf("init extracts: %w", err)
	}

	api, err := newLogAPI(ctx, cfg, opts.Demo)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paged, tail := state.NewStore(), state.NewStore()
	queue := fetch.NewQueue()
	wg := startWorkers(ctx, api, queue, paged, tail, cfg, logger)
	issuer := fetch.NewIssuer(queue, paged, tail)

	StartTailPoller(ctx, issuer, tail, cfg.TailInterval)
	issuer.RequestGroups()

	logger.Info().
		Str("region", cfg.Region).
		Bool("demo", opts.Demo).
		Int("workers", cfg.Workers).
		Msg("cwlogs started")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Paged:     paged,
		Tail:      tail,
		Issuer:    issuer,
		Extractor: extractor,
		LogFile:   cfg.LogFile,
		Tick:      cfg.Tick,
		ThemeName: cfg.Theme,
	})

	cancel()
	queue.Close()
	wg.Wait()
	if err != nil {
		logger.Error().Err(err).Msg("ui exited")
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info().Msg("cwlogs stopped")
	return nil
}

// newLogAPI returns the demo store or a CloudWatch Logs client.
func newLogAPI(ctx context.Context, cfg config.Config, demo bool) (fetch.LogAPI, error) {
	if demo {
		return cloudwatch.NewDemo(nil), nil
	}
	client, err := cloudwatch.Connect(ctx, cloudwatch.AuthOptions{Region: cfg.Region, Profile: cfg.Profile})
	if err != nil {
		return nil, fmt.Errorf("init cloudwatch client: %w", err)
	}
	return client, nil
}

// startWorkers runs cfg.Workers workers on queue until ctx is done.
func startWorkers(ctx context.Context, api fetch.LogAPI, queue *fetch.Queue, paged, tail *state.Store, cfg config.Config, logger zerolog.Logger) *sync.WaitGroup {
	opts := fetch.Options{
		GroupPageSize:   cfg.LogGroupPageSize,
		EventPageSize:   cfg.EventPageSize,
		TailBufferLimit: cfg.TailBufferLimit,
		Timeout:         cfg.FetchTimeout,
		Logger:          logger,
	}
	var wg sync.WaitGroup
	for i := 0; i < max(cfg.Workers, 1); i++ {
		w := fetch.NewWorker(api, queue, paged, tail, opts)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("fetch worker stopped")
			}
		}()
	}
	return &wg
}

func extractSpecs(extracts []config.Extract) []extract.Spec {
	specs := make([]extract.Spec, 0, len(extracts))
	for _, e := range extracts {
		specs = append(specs, extract.Spec{Name: e.Name, Path: e.Path})
	}
	return specs
}
