package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"grayscope/internal/app"
	"grayscope/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "grayscope",
		Short:         "Grayscale image processing desktop tool",
		Version:       app.AppVersion,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runGUI(cfg)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(newApplyCommand(&configPath), newFiltersCommand(&configPath))
	return root
}

func runGUI(cfg config.Config) error {
	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("application initialization failed: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			application.Shutdown()
		}
	}()

	return application.Run()
}

type applyFlags struct {
	filter     string
	in         string
	out        string
	kernelSize int
	amplitude  float64
	windowSize int
	narrow     string
	border     string
	workers    int
}

func newApplyCommand(configPath *string) *cobra.Command {
	var f applyFlags

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run one filter on an image file without opening a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			overrideConfig(cmd, &cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runApply(ctx, cfg, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.filter, "filter", "", "filter name, see the filters command")
	flags.StringVar(&f.in, "in", "", "input image")
	flags.StringVar(&f.out, "out", "", "output image, format chosen by extension")
	flags.IntVar(&f.kernelSize, "kernel-size", 0, "Gaussian kernel side length (odd, >= 3)")
	flags.Float64Var(&f.amplitude, "amplitude", 0, "Gaussian amplitude (> 0)")
	flags.IntVar(&f.windowSize, "window-size", 0, "local equalization window side length (odd, >= 3)")
	flags.StringVar(&f.narrow, "narrow", "", "float to 8-bit conversion: wrap or saturate")
	flags.StringVar(&f.border, "border", "", "edge padding: symmetric or reflect101")
	flags.IntVar(&f.workers, "workers", 0, "row workers, 0 keeps the configured value")
	_ = cmd.MarkFlagRequired("filter")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// overrideConfig copies only the flags the user actually set.
func overrideConfig(cmd *cobra.Command, cfg *config.Config, f applyFlags) {
	flags := cmd.Flags()
	if flags.Changed("kernel-size") {
		cfg.Gaussian.KernelSize = f.kernelSize
	}
	if flags.Changed("amplitude") {
		cfg.Gaussian.Amplitude = f.amplitude
	}
	if flags.Changed("window-size") {
		cfg.Equalize.WindowSize = f.windowSize
	}
	if flags.Changed("narrow") {
		cfg.Processing.Narrow = f.narrow
	}
	if flags.Changed("border") {
		cfg.Processing.Border = f.border
	}
	if flags.Changed("workers") {
		cfg.Processing.Workers = f.workers
	}
}

func runApply(ctx context.Context, cfg config.Config, f applyFlags) error {
	services, err := app.NewServices(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer services.Close()

	if _, err := services.Registry.Get(f.filter); err != nil {
		return err
	}
	if _, err := services.Coordinator.LoadFile(f.in); err != nil {
		return err
	}
	if _, err := services.Coordinator.Apply(ctx, f.filter); err != nil {
		return err
	}
	return services.Coordinator.SaveFile(f.out)
}

func newFiltersCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the available filters in menu order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			cfg.Log.Level = "error"
			services, err := app.NewServices(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer services.Close()

			out := cmd.OutOrStdout()
			for _, f := range services.Registry.List() {
				fmt.Fprintf(out, "%-18s %s\n", f.Name(), f.Label())
			}
			fmt.Fprintf(out, "\nkernel_size=%d amplitude=%g window_size=%d border=%s narrow=%s\n",
				cfg.Gaussian.KernelSize, cfg.Gaussian.Amplitude, cfg.Equalize.WindowSize,
				cfg.Processing.Border, cfg.Processing.Narrow)
			return nil
		},
	}
}
