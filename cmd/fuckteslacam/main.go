// Package main provides the CLI entry point for fuckteslacam.
package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ffmpegbin"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ffmpegcaps"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ffmpegdecoder"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ffmpegencoder"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/filesink"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/ggrenderer"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/logger"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/mjpegencoder"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/mp4probe"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/nullsink"
	"github.com/MuggleFighter/fuckteslacam/pkg/adapters/osfilesystem"
	"github.com/MuggleFighter/fuckteslacam/pkg/config"
	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
	"github.com/MuggleFighter/fuckteslacam/pkg/run"
)

var version = "dev"

func main() {
	// Local overrides for FFMPEG_PATH and friends.
	godotenv.Load()

	app := &cli.App{
		Name:    "fuckteslacam",
		Usage:   "Burn recording timestamps into dashcam clips.",
		Version: version,
		Commands: []*cli.Command{
			stampCommand(),
			probeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func stampCommand() *cli.Command {
	return &cli.Command{
		Name:      "stamp",
		Usage:     "Watermark a clip with its recording timestamp",
		ArgsUsage: "<clip.mp4>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (default: derived from the input name)"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.Float64Flag{Name: "fps", Usage: "Capture frame rate"},
			&cli.IntFlag{Name: "chunk-ms", Usage: "Segment emission interval in milliseconds"},
			&cli.IntFlag{Name: "grace-ms", Usage: "Wait after playback before stopping capture, in milliseconds"},
			&cli.IntFlag{Name: "bitrate", Usage: "Target bitrate in bps"},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: "Quality (CRF 0-63, lower is better)"},
			&cli.StringFlag{Name: "text-color", Usage: "Stamp text color (hex, e.g. #ffffff)"},
			&cli.StringFlag{Name: "panel-color", Usage: "Stamp panel color (hex, e.g. #000000)"},
			&cli.StringFlag{Name: "ffmpeg", Usage: "Path to ffmpeg executable (falls back to FFMPEG_PATH env, then system default)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "Enable debug output"},
			&cli.StringFlag{Name: "debug-dir", Value: "./debug", Usage: "Directory for debug output"},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: "Log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: "Suppress all log output"},
		},
		Action: runStamp,
	}
}

func runStamp(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one input clip", 2)
	}
	inputPath := c.Args().First()

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	if cfg.FFmpegPath != "" {
		ffmpegbin.SetPath(cfg.FFmpegPath)
	}

	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	coordinator := run.NewCoordinator(
		mp4probe.New(),
		ffmpegcaps.New(),
		renderer,
		newFrameSource,
		newEncoder,
		sink,
		log,
		run.Config{
			CaptureFPS:       cfg.CaptureFPS,
			ChunkInterval:    time.Duration(cfg.ChunkIntervalMs) * time.Millisecond,
			GraceWait:        time.Duration(cfg.GraceWaitMs) * time.Millisecond,
			ProgressInterval: time.Duration(cfg.ProgressIntervalMs) * time.Millisecond,
			Bitrate:          cfg.Bitrate,
			Quality:          cfg.Quality,
			Style:            cfg.ToStampStyle(),
		},
	)

	src := run.Source{
		Name:      filepath.Base(inputPath),
		MediaType: mime.TypeByExtension(filepath.Ext(inputPath)),
		Data:      input,
	}

	result, err := coordinator.Run(ctx, src, progressPrinter(c.Bool("quiet")))
	if err != nil {
		return cli.Exit(run.UserMessage(err), 1)
	}

	outputPath := c.String("output")
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(inputPath), result.SuggestedName)
	}
	if err := fs.WriteFile(outputPath, result.Artifact.Data); err != nil {
		log.Error("Failed to write output: %s", err)
		return cli.Exit(err.Error(), 1)
	}

	log.Info("Output saved to %s", outputPath)
	return nil
}

// progressPrinter renders in-place progress on interactive terminals.
func progressPrinter(quiet bool) func(int) {
	if quiet || !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}
	return func(percent int) {
		fmt.Printf("\r%s %3d%%", l10n.T("Stamping..."), percent)
		if percent >= 100 {
			fmt.Println()
		}
	}
}

// buildConfig loads the optional config file and applies flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("fps") {
		cfg.CaptureFPS = c.Float64("fps")
	}
	if c.IsSet("chunk-ms") {
		cfg.ChunkIntervalMs = c.Int("chunk-ms")
	}
	if c.IsSet("grace-ms") {
		cfg.GraceWaitMs = c.Int("grace-ms")
	}
	if c.IsSet("bitrate") {
		cfg.Bitrate = c.Int("bitrate")
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("text-color") {
		cfg.Stamp.TextColor = c.String("text-color")
	}
	if c.IsSet("panel-color") {
		cfg.Stamp.PanelColor = c.String("panel-color")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, nil
}

func newFrameSource(r io.Reader, info ports.SourceInfo) ports.FrameSource {
	return ffmpegdecoder.New(r, info)
}

func newEncoder(profile pipeline.EncodingProfile) (ports.VideoEncoder, error) {
	if profile.Codec == "mjpeg" {
		return mjpegencoder.New(), nil
	}
	return ffmpegencoder.New(profile.Codec)
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Inspect a clip without processing it",
		ArgsUsage: "<clip.mp4>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one input clip", 2)
			}
			inputPath := c.Args().First()

			input, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer input.Close()

			info, err := mp4probe.New().Probe(input)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			fmt.Printf("container: %s\n", info.Container)
			fmt.Printf("codec:     %s\n", info.Codec)
			fmt.Printf("size:      %dx%d\n", info.Width, info.Height)
			fmt.Printf("duration:  %dms\n", info.DurationMs)
			fmt.Printf("fps:       %.2f\n", info.FPS)
			return nil
		},
	}
}
