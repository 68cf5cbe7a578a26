/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ecopia-map/cesium_loader/internal/config"
	"github.com/ecopia-map/cesium_loader/internal/io"
	"github.com/ecopia-map/cesium_loader/internal/metrics"
	"github.com/ecopia-map/cesium_loader/internal/ply"
	"github.com/ecopia-map/cesium_loader/internal/pnts"
	"github.com/ecopia-map/cesium_loader/pkg"
	"github.com/ecopia-map/cesium_loader/tools"
)

const VERSION = "1.0.0"

var (
	cfgFile string
	v       = viper.New()
)

func main() {
	// glog writes files under the temp dir unless told otherwise
	_ = flag.Set("logtostderr", "true")

	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cesium_loader",
	Short:         "Load the points of a 3D Tiles point cloud",
	Long:          "cesium_loader walks a 3D Tiles tileset, decodes every pnts payload it references and reports the collected points.",
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog refuses to log before its flag set is parsed, cobra parsed it already
		return flag.CommandLine.Parse([]string{})
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <tileset.json|folder>",
	Short: "Walk a tileset and collect its points",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pnts>",
	Short: "Print the header and feature table of a pnts payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "v."+VERSION)
	},
}

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().Bool("silent", false, "Suppress progress logs")

	flags := loadCmd.Flags()
	flags.IntP("workers", "w", config.DefaultWorkers, "Max number of items doing I/O at once, 0 for unbounded")
	flags.String("manifest-name", "tileset.json", "Manifest looked up in each subfolder when the input is a folder")
	flags.String("ext", ".pnts", "Suffix of content references decoded as pnts payloads")
	flags.StringP("format", "f", config.DefaultFormat, "Summary format: text, json or yaml")
	flags.StringP("export", "o", "", "Export the points to a PLY file, zstd compressed when ending in .zst")
	flags.Bool("progress", false, "Show a progress spinner on stderr")
	flags.String("metrics-file", "", "Write prometheus metrics of the walk to this file")

	_ = v.BindPFlag("logging.silent", rootCmd.PersistentFlags().Lookup("silent"))
	_ = v.BindPFlag("loader.workers", flags.Lookup("workers"))
	_ = v.BindPFlag("loader.manifest_name", flags.Lookup("manifest-name"))
	_ = v.BindPFlag("loader.payload_ext", flags.Lookup("ext"))
	_ = v.BindPFlag("output.format", flags.Lookup("format"))
	_ = v.BindPFlag("output.export", flags.Lookup("export"))
	_ = v.BindPFlag("output.progress", flags.Lookup("progress"))
	_ = v.BindPFlag("output.metrics_file", flags.Lookup("metrics-file"))

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Logging.Silent {
		tools.DisableLogger()
	} else {
		tools.EnableLogger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := pkg.NewLoader(tools.NewStandardFileFinder(), cfg.LoaderOptions(args[0]))

	var reg *prometheus.Registry
	if cfg.Output.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}
		l.AddObserver(m)
	}

	var bar *progressbar.ProgressBar
	if cfg.Output.Progress {
		bar = tools.NewProgressBar(-1, tools.DescLoading)
		l.AddObserver(&progressObserver{bar: bar})
	}

	start := time.Now()
	result, err := l.Load(ctx)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	if reg != nil {
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if cfg.Output.Export != "" {
		if err := result.Render(ctx, ply.NewExporter(cfg.Output.Export)); err != nil {
			return fmt.Errorf("failed to export points: %w", err)
		}
		tools.LogOutput("exported", result.Stats.Points, "points to", cfg.Output.Export)
	}

	return printSummary(cmd, newSummary(args[0], result, time.Since(start)), cfg.Output.Format)
}

func runInspect(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	header, featureTable, err := pnts.Inspect(buf)
	if header != nil {
		fmt.Fprintln(cmd.OutOrStdout(), tools.FmtJSONString(header))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tools.FmtJSONString(featureTable))

	encoding, err := pnts.ClassifyEncoding(featureTable)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "encoding: %s\n", encoding)

	return nil
}

// progressObserver ticks the spinner once per finished item
type progressObserver struct {
	bar *progressbar.ProgressBar
}

func (p *progressObserver) OnItemStart(io.WorkItem) {}

func (p *progressObserver) OnItemDone(io.WorkItem, int, error) {
	_ = p.bar.Add(1)
}

type summaryError struct {
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Class   string `json:"class" yaml:"class"`
	Message string `json:"message" yaml:"message"`
}

type summary struct {
	WalkID   string         `json:"walk_id" yaml:"walk_id"`
	Input    string         `json:"input" yaml:"input"`
	Elapsed  string         `json:"elapsed" yaml:"elapsed"`
	Batches  int            `json:"batches" yaml:"batches"`
	Points   int            `json:"points" yaml:"points"`
	Skipped  int            `json:"non_finite" yaml:"non_finite"`
	Min      [3]float32     `json:"min" yaml:"min,flow"`
	Max      [3]float32     `json:"max" yaml:"max,flow"`
	Centroid [3]string      `json:"centroid" yaml:"centroid,flow"`
	Errors   []summaryError `json:"errors" yaml:"errors"`
}

func newSummary(input string, result *pkg.Result, elapsed time.Duration) *summary {
	s := &summary{
		WalkID:  result.WalkID,
		Input:   input,
		Elapsed: elapsed.Round(time.Millisecond).String(),
		Batches: result.Stats.Batches,
		Points:  result.Stats.Points,
		Skipped: result.Stats.NonFinite,
		Min:     result.Stats.Min,
		Max:     result.Stats.Max,
		Errors:  make([]summaryError, 0, len(result.Errors)),
	}
	for i, c := range result.Stats.Centroid {
		s.Centroid[i] = c.StringFixed(3)
	}
	for _, e := range result.Errors {
		s.Errors = append(s.Errors, summaryError{
			Path:    e.Path,
			Kind:    e.Kind,
			Class:   string(e.Class()),
			Message: e.Err.Error(),
		})
	}
	return s
}

func printSummary(cmd *cobra.Command, s *summary, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)

	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(s)
	}

	fmt.Fprintf(out, "walk %s: %d points from %d payloads in %s\n", s.WalkID, s.Points, s.Batches, s.Elapsed)
	if s.Points > 0 {
		fmt.Fprintf(out, "  min      %v\n", s.Min)
		fmt.Fprintf(out, "  max      %v\n", s.Max)
		fmt.Fprintf(out, "  centroid %v\n", s.Centroid)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(out, "  %d point(s) with non-finite coordinates left out of bounds and centroid\n", s.Skipped)
	}
	if len(s.Errors) > 0 {
		fmt.Fprintf(out, "%d item(s) failed:\n", len(s.Errors))
		for _, e := range s.Errors {
			fmt.Fprintf(out, "  [%s] %s %s: %s\n", e.Class, e.Kind, e.Path, e.Message)
		}
	}
	return nil
}
