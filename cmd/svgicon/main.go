package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/WinPooh32/svgicon"
	"github.com/WinPooh32/svgicon/optimize"
	"github.com/WinPooh32/svgicon/tpl"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "dev"

const envPrefix = "SVGICON"

type config struct {
	source     string
	target     string
	ext        string
	tpl        string
	jobs       int
	indexStyle svgicon.IndexStyle
	exclude    []string
	idPrefix   string
	minify     bool
	ivg        bool
	strict     bool
	verbose    bool
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "svgicon",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd(afero.NewOsFs(), logger).ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.Error("failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd(fsys afero.Fs, logger *log.Logger) *cobra.Command {
	var (
		v       = viper.New()
		cfgFile string
		style   = svgicon.IndexRequire
	)

	cmd := &cobra.Command{
		Use:     "svgicon -s <source> -t <target>",
		Version: version,
		Short:   "Generate icon modules from a directory of SVG files",
		Long: `svgicon walks the source directory for SVG files, normalizes every icon and
writes one module per icon into the target directory, mirroring the source
layout. An index file referencing all modules is written at the target root
and in every first-level directory.

The target directory is cleared before every run.

Every flag can also be set with a SVGICON_<FLAG> environment variable
(dashes become underscores) or a key in the --config file.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, fsys, cmd.Flags(), cfgFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := newConfig(v)
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true

			return run(cmd.Context(), fsys, logger, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("source", "s", "", "SVG source directory (required)")
	flags.StringP("target", "t", "", "generated files directory, cleared on every run (required)")
	flags.String("ext", svgicon.DefaultExtension, "extension of generated files")
	flags.String("tpl", "", "icon module template file (default bundled vue-svgicon template)")
	flags.IntP("jobs", "j", 0, "number of parallel conversions (default number of CPUs)")
	flags.Var(&style, "index-style", `index statement style, "require" or "import"`)
	flags.StringSlice("exclude", nil, "glob patterns of source files to skip, relative to the source directory")
	flags.String("id-prefix", optimize.DefaultIDPrefix, "prefix of rewritten element ids")
	flags.Bool("minify", false, "minify icon markup")
	flags.Bool("ivg", false, "also write an IconVG file per icon")
	flags.Bool("strict", false, "exit with an error when any icon fails")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	return cmd
}

// loadConfig layers flags over environment variables over the config file.
func loadConfig(v *viper.Viper, fsys afero.Fs, flags *pflag.FlagSet, path string) error {
	v.SetFs(fsys)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if path == "" {
		return nil
	}

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

func newConfig(v *viper.Viper) (config, error) {
	cfg := config{
		source:   v.GetString("source"),
		target:   v.GetString("target"),
		ext:      v.GetString("ext"),
		tpl:      v.GetString("tpl"),
		jobs:     v.GetInt("jobs"),
		exclude:  v.GetStringSlice("exclude"),
		idPrefix: v.GetString("id-prefix"),
		minify:   v.GetBool("minify"),
		ivg:      v.GetBool("ivg"),
		strict:   v.GetBool("strict"),
		verbose:  v.GetBool("verbose"),
	}

	var missing []string

	if cfg.source == "" {
		missing = append(missing, `"source"`)
	}

	if cfg.target == "" {
		missing = append(missing, `"target"`)
	}

	if len(missing) > 0 {
		return config{}, fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
	}

	if err := cfg.indexStyle.Set(v.GetString("index-style")); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func run(ctx context.Context, fsys afero.Fs, logger *log.Logger, cfg config) error {
	if cfg.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	source, err := filepath.Abs(cfg.source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}

	target, err := filepath.Abs(cfg.target)
	if err != nil {
		return fmt.Errorf("resolve target: %w", err)
	}

	template, err := tpl.Load(fsys, cfg.tpl)
	if err != nil {
		return err
	}

	optimizeCfg := optimize.DefaultConfig(cfg.idPrefix)
	optimizeCfg.Minify = cfg.minify

	conv, err := svgicon.NewConverter(fsys, logger, svgicon.Options{
		Template:   template,
		Extension:  cfg.ext,
		Jobs:       cfg.jobs,
		IndexStyle: cfg.indexStyle,
		Exclude:    cfg.exclude,
		Optimize:   optimizeCfg,
		IVG:        cfg.ivg,
	})
	if err != nil {
		return fmt.Errorf("new converter: %w", err)
	}

	logger.Debug("converting", "source", source, "target", target)

	report, err := conv.Run(ctx, source, target)
	if err != nil {
		return err
	}

	logger.Info("done",
		"icons", report.Icons,
		"indexes", report.Indexes,
		"ivg", report.IVGs,
		"failed", len(report.Failed),
		"size", report.Size(),
	)

	if err := report.Err(); err != nil && cfg.strict {
		return fmt.Errorf("strict: %w", err)
	}

	return nil
}
