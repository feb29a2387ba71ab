package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rna-graph/internal/common/logging"
	"rna-graph/internal/common/metrics"
	"rna-graph/internal/rnagraph/interaction"
	"rna-graph/internal/rnagraph/mapper"
	"rna-graph/internal/rnagraph/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	annotatorURL     string
	annotatorTimeout time.Duration
	logLevel         string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "rnascene",
		Short:         "Build RNA/DNA interaction scenes from PDB or mmCIF files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.annotatorURL, "annotator-url", "", "Annotation service URL (built-in backbone annotator when empty)")
	cmd.PersistentFlags().DurationVar(&opts.annotatorTimeout, "annotator-timeout", 30*time.Second, "Annotation service timeout")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")

	cmd.AddCommand(newSceneCommand(opts), newPreviewCommand(opts))
	return cmd
}

func newSceneCommand(opts *rootOptions) *cobra.Command {
	var layers bool

	cmd := &cobra.Command{
		Use:   "scene <file>",
		Short: "Print the scene as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := convert(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if layers {
				return printLayers(cmd, sc)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sc)
		},
	}

	cmd.Flags().BoolVar(&layers, "layers", false, "Print a layer summary instead of the full scene")
	return cmd
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Print an SVG preview of the scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := convert(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if showAll {
				for _, l := range sc.LineLayers {
					l.Visible = true
				}
				if l := sc.PointLayer(models.HeteroatomsLayer); l != nil {
					l.Visible = true
				}
			}

			svg, err := mapper.NewRenderer().Render(sc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), svg)
			return err
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Show interaction and heteroatom layers")
	return cmd
}

func convert(cmd *cobra.Command, opts *rootOptions, path string) (*models.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	logger, err := logging.New(opts.logLevel, "console", "stderr")
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	annotator := interaction.NewAnnotator(opts.annotatorURL, opts.annotatorTimeout)
	pipeline := mapper.New(annotator, logger, metrics.New(false))

	sc, err := pipeline.Convert(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		logger.Debug("conversion failed", zap.Error(err))
		return nil, errors.New(mapper.UserMessage(err))
	}
	return sc, nil
}

func printLayers(cmd *cobra.Command, sc *models.Scene) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, %s)\n", sc.Name, sc.Format, sc.Composition)
	for _, l := range sc.PointLayers {
		fmt.Fprintf(out, "points  %-14s %d\n", l.Name, len(l.Keys))
	}
	for _, l := range sc.LineLayers {
		fmt.Fprintf(out, "lines   %-14s %d\n", l.Type, len(l.Segments))
	}
	for _, o := range append(sc.Options, sc.HeteroOption) {
		state := "enabled"
		if o.Disabled {
			state = "disabled"
		}
		fmt.Fprintf(out, "option  %-14s %s\n", o.Value, state)
	}
	return nil
}
