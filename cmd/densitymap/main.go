// Command densitymap renders the visible layout of a Chrome tab as a compact
// text map for LLM browser agents.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/v0xg/densitymap/internal/config"
	"github.com/v0xg/densitymap/internal/crawler"
	"github.com/v0xg/densitymap/internal/densitymap"
	"github.com/v0xg/densitymap/internal/overlay"
)

var version = "dev"

var (
	cols           int
	sparse         bool
	blocks         bool
	at             string
	port           int
	launch         bool
	chromePath     string
	settle         time.Duration
	maxInteractive int
	imagePath      string
	imageWidth     uint
	inputPath      string
	jsonOut        bool
	noHeader       bool
	verbose        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "densitymap [url]",
		Short: "Text density maps of web pages for LLM browser automation",
		Long: `densitymap connects to a Chrome instance over the DevTools protocol, walks
the visible DOM and renders it as a character grid showing element density
and type. Interactive elements are listed with labels and coordinates.

Start Chrome with --remote-debugging-port=9222 first, or pass --launch.`,
		Example: `  densitymap                         # map the current tab
  densitymap https://example.com     # navigate, then map
  densitymap --cols 120 --blocks     # wider grid, block glyphs
  densitymap --sparse                # RLE + row dedup (minimal tokens)
  densitymap --at 694,584            # elements under a pixel
  densitymap --at g48,40             # elements under a grid cell
  densitymap --image map.png         # also save an annotated screenshot`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().IntVar(&cols, "cols", 0, "Grid width in columns (default: 160 dense, 80 sparse)")
	rootCmd.Flags().BoolVar(&sparse, "sparse", false, "RLE-compressed output (minimal tokens)")
	rootCmd.Flags().BoolVar(&blocks, "blocks", false, "Unicode block art glyphs")
	rootCmd.Flags().StringVar(&at, "at", "", "Reverse lookup at pixel X,Y or grid gCOL,ROW")
	rootCmd.Flags().IntVar(&port, "port", 0, "Chrome remote debugging port (default: 9222)")
	rootCmd.Flags().BoolVar(&launch, "launch", false, "Launch headless Chrome if none is listening")
	rootCmd.Flags().StringVar(&chromePath, "chrome-path", "", "Browser binary used with --launch")
	rootCmd.Flags().DurationVar(&settle, "settle", 0, "Wait after navigation (default: 3s)")
	rootCmd.Flags().IntVar(&maxInteractive, "max-interactive", 0, "Cap the interactive listing, 0 for no cap (default: 50)")
	rootCmd.Flags().StringVar(&imagePath, "image", "", "Also write the grid drawn over a screenshot to this PNG")
	rootCmd.Flags().UintVar(&imageWidth, "image-width", 1280, "Maximum width of the --image output")
	rootCmd.Flags().StringVar(&inputPath, "input", "", "Render a snapshot JSON file instead of a live page")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "Print the captured snapshot as JSON")
	rootCmd.Flags().BoolVar(&noHeader, "no-header", false, "Print only the map and listing")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.MarkFlagsMutuallyExclusive("input", "image")

	rootCmd.AddCommand(configCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(ctx, rootCmd, fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := configure(cmd, cfg); err != nil {
		return err
	}

	mode, err := densitymap.ParseMode(cfg.Map.Mode)
	if err != nil {
		return err
	}
	gridCols := cfg.ColsFor(string(mode))
	if cmd.Flags().Changed("cols") {
		gridCols = cols
	}
	glyphs, err := densitymap.GlyphsByName(cfg.Map.Glyphs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var (
		snap    *densitymap.Snapshot
		browser *crawler.Browser
	)
	if inputPath != "" {
		if len(args) > 0 {
			return fmt.Errorf("a url cannot be combined with --input")
		}
		snap, err = readSnapshot(inputPath)
	} else {
		browser, snap, err = capture(ctx, cfg, args)
		if browser != nil {
			defer browser.Close()
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	if at != "" {
		q, err := densitymap.ParseQuery(at, gridCols)
		if err != nil {
			return err
		}
		stack, err := densitymap.Lookup(snap, q)
		if err != nil {
			return err
		}
		log.Debug("reverse lookup", "point", fmt.Sprintf("%d,%d", stack.Point.X, stack.Point.Y), "depth", len(stack.Elements))
		fmt.Fprint(out, densitymap.RenderStack(stack))
		return nil
	}

	res, err := densitymap.Render(snap, densitymap.Options{
		Mode:           mode,
		Cols:           gridCols,
		Glyphs:         glyphs,
		MaxInteractive: cfg.Map.MaxInteractive,
	})
	if err != nil {
		return err
	}
	if !noHeader {
		fmt.Fprint(out, header(snap, res, mode, glyphs))
	}
	fmt.Fprint(out, res.Text)

	if imagePath != "" {
		return writeImage(ctx, browser, snap, res)
	}
	return nil
}

// applyFlags lets explicitly set flags override file and environment config
// configure layers the explicitly set flags over cfg and validates the result.
func configure(cmd *cobra.Command, cfg *config.Config) error {
	applyFlags(cmd, cfg)
	return cfg.Validate()
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Browser.Port = port
	}
	if flags.Changed("launch") {
		cfg.Browser.Launch = launch
	}
	if flags.Changed("chrome-path") {
		cfg.Browser.ChromePath = chromePath
	}
	if flags.Changed("settle") {
		cfg.Browser.SettleMs = int(settle.Milliseconds())
	}
	if flags.Changed("max-interactive") {
		cfg.Map.MaxInteractive = maxInteractive
	}
	if flags.Changed("sparse") {
		cfg.Map.Mode = "dense"
		if sparse {
			cfg.Map.Mode = "sparse"
		}
	}
	if flags.Changed("blocks") {
		cfg.Map.Glyphs = "ascii"
		if blocks {
			cfg.Map.Glyphs = "blocks"
		}
	}
}

// capture connects to the browser, optionally navigates and walks the page
func capture(ctx context.Context, cfg *config.Config, args []string) (*crawler.Browser, *densitymap.Snapshot, error) {
	log.Debug("connecting to browser", "port", cfg.Browser.Port, "launch", cfg.Browser.Launch)
	browser, err := crawler.Connect(ctx, crawler.Options{
		Port:       cfg.Browser.Port,
		Launch:     cfg.Browser.Launch,
		ChromePath: cfg.Browser.ChromePath,
		Width:      cfg.Browser.Width,
		Height:     cfg.Browser.Height,
		Settle:     cfg.Settle(),
		Timeout:    cfg.Timeout(),
	})
	if err != nil {
		return nil, nil, err
	}

	if len(args) > 0 {
		log.Debug("navigating", "url", args[0])
		if err := browser.Navigate(ctx, args[0]); err != nil {
			return browser, nil, err
		}
	}

	snap, err := browser.Snapshot(ctx)
	if err != nil {
		return browser, nil, err
	}
	return browser, snap, nil
}

func readSnapshot(path string) (*densitymap.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap densitymap.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return &snap, nil
}

func writeImage(ctx context.Context, browser *crawler.Browser, snap *densitymap.Snapshot, res *densitymap.Result) error {
	shot, err := browser.Screenshot(ctx)
	if err != nil {
		return err
	}
	img := overlay.Annotate(shot, snap.Viewport, res.Grid, res.Interactive, overlay.Options{
		MaxWidth:  imageWidth,
		GridLines: true,
	})
	size, err := overlay.WritePNG(imagePath, img)
	if err != nil {
		return fmt.Errorf("writing %s: %w", imagePath, err)
	}
	log.Info("saved annotated screenshot", "path", imagePath, "kb", size/1024)
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the densitymap config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config to the XDG config directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}
