package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	cobra "github.com/spf13/cobra"

	config "github.com/capture-tools/zoomd/config"
	display "github.com/capture-tools/zoomd/internal/display"
	engine "github.com/capture-tools/zoomd/internal/engine"
	logger "github.com/capture-tools/zoomd/internal/logger"
	server "github.com/capture-tools/zoomd/internal/server"
	storage "github.com/capture-tools/zoomd/internal/storage"
	tracker "github.com/capture-tools/zoomd/internal/tracker"
	zoom "github.com/capture-tools/zoomd/internal/zoom"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the zoom engine",
	Long: `Enumerates displays, connects the cursor tracker and runs the tick loop
until interrupted. Crop rectangles and state transitions stream to
connected WebSocket clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEngine(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// registrySource reports the capture source geometry, preferring the
// configured fixed size and falling back to the primary display
type registrySource struct {
	name     string
	fixed    display.Size
	registry *display.Registry
}

func (s *registrySource) Name() string { return s.name }

func (s *registrySource) PixelSize(ctx context.Context) (display.Size, error) {
	if !s.fixed.IsDegenerate() {
		return s.fixed, nil
	}
	primary := s.registry.Primary()
	if primary == nil {
		return display.Size{}, display.ErrDisplayNotFound
	}
	return primary.PixelSize, nil
}

// broadcastSink forwards crop rectangles to connected control clients
type broadcastSink struct {
	srv *server.ControlServer
}

func (s *broadcastSink) ApplyCrop(ctx context.Context, crop display.Region) error {
	logger.Debug("crop", "x", crop.X, "y", crop.Y, "width", crop.Width, "height", crop.Height)
	if s.srv != nil {
		s.srv.BroadcastCrop(crop)
	}
	return nil
}

func runEngine(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := display.NewRegistry()

	enumerator, closeEnum, err := newNativeEnumerator()
	if err != nil {
		return fmt.Errorf("failed to connect to display server: %w", err)
	}
	defer func() { _ = closeEnum() }()

	source := &registrySource{
		name:     cfg.Source.Name,
		fixed:    display.Size{Width: float64(cfg.Source.Width), Height: float64(cfg.Source.Height)},
		registry: registry,
	}

	if err := registry.Populate(ctx, enumerator, nil, displayOverrides(cfg)); err != nil {
		return fmt.Errorf("failed to enumerate displays: %w", err)
	}
	if registry.Len() == 0 {
		return fmt.Errorf("no usable displays found")
	}
	go refreshDisplays(ctx, registry, enumerator, displayOverrides(cfg))

	sourceSize, err := source.PixelSize(ctx)
	if err != nil {
		return err
	}

	controller, err := zoom.NewController(sourceSize, zoomProfiles(cfg), cfg.DefaultProfile)
	if err != nil {
		return fmt.Errorf("invalid profile configuration: %w", err)
	}

	mapper := display.NewMapper(registry)
	if cfg.Source.Display != "" {
		mapper.SetActiveDisplay(cfg.Source.Display)
	}

	sampler, err := tracker.NewNativeSampler("")
	if err != nil {
		return fmt.Errorf("failed to start cursor tracker: %w", err)
	}
	defer func() { _ = sampler.Close() }()

	journal, err := storage.NewJournal(storage.JournalConfig{
		Type:   cfg.Journal.Type,
		SQLite: storage.SQLiteConfig{Path: cfg.Journal.Path},
	})
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	queue := zoom.NewQueue(cfg.Engine.QueueSize)

	var controlServer *server.ControlServer
	if cfg.WebSocket.Enabled {
		controlServer = server.NewControlServer(cfg.WebSocket.Host, cfg.WebSocket.Port, queue, controller.State())
		go func() {
			if err := controlServer.Start(); err != nil {
				logger.Error("control server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := controlServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("control server shutdown error", "error", err)
			}
		}()
	}

	if cfg.UDP.Enabled {
		udp := server.NewUDPListener(cfg.UDP.Host, cfg.UDP.Port, queue)
		if err := udp.Start(); err != nil {
			return fmt.Errorf("failed to start UDP listener: %w", err)
		}
		defer func() { _ = udp.Close() }()
	}

	opts := engine.Options{
		Source:     source,
		Sampler:    sampler,
		Sink:       &broadcastSink{srv: controlServer},
		Mapper:     mapper,
		Queue:      queue,
		Controller: controller,
		Interval:   time.Duration(cfg.Engine.TickIntervalMs) * time.Millisecond,
		Journal:    journal,
	}
	if controlServer != nil {
		opts.OnState = controlServer.BroadcastState
	}

	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	logger.Info("zoomd started",
		"source", cfg.Source.Name,
		"displays", registry.Len(),
		"profile", cfg.DefaultProfile)

	return eng.Run(ctx)
}

// displayRefreshInterval is how often the display layout is re-read.
// X11 and Quartz reconfiguration events are not subscribed to; polling
// through the idempotent Populate picks up attach/detach and resolution
// changes instead.
const displayRefreshInterval = 10 * time.Second

func refreshDisplays(ctx context.Context, registry *display.Registry, enum display.Enumerator, overrides map[string]display.Override) {
	ticker := time.NewTicker(displayRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := registry.Populate(ctx, enum, nil, overrides); err != nil {
				logger.Warn("display re-enumeration failed", "error", err)
			}
		}
	}
}

func displayOverrides(cfg *config.Config) map[string]display.Override {
	out := make(map[string]display.Override, len(cfg.DisplayOverrides))
	for id, ov := range cfg.DisplayOverrides {
		out[id] = display.Override{ScaleX: ov.ScaleX, ScaleY: ov.ScaleY}
	}
	return out
}

func zoomProfiles(cfg *config.Config) map[string]zoom.Profile {
	out := make(map[string]zoom.Profile, len(cfg.Profiles))
	for name, p := range cfg.Profiles {
		out[name] = zoom.Profile{
			Name:                name,
			ZoomFactor:          p.ZoomFactor,
			ZoomSpeed:           p.ZoomSpeed,
			FollowSpeed:         p.FollowSpeed,
			FollowBorder:        p.FollowBorder,
			Easing:              p.Easing,
			AutoFollow:          p.AutoFollow,
			FollowOutsideBounds: p.FollowOutsideBounds,
		}
	}
	return out
}
