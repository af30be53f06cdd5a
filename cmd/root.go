package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/TFMV/wildfind/internal/output"
	"github.com/TFMV/wildfind/internal/pattern"
	"github.com/TFMV/wildfind/internal/walk"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newRootCmd builds the command with its own viper instance so that every
// invocation, including those in tests, starts from a clean configuration.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "wildfind [options] <dir>",
		Short: "Find files by wildcard name in parallel",
		Long: `wildfind searches a directory tree for entries whose names match a wildcard
pattern and prints each match as soon as it is found.

'*' matches any run of characters, ',' separates alternatives and every other
character, '.' included, matches itself. Output order is not defined.

Examples:
  wildfind ~/src --name="*.go,*.mod"
  wildfind . -n "Makefile" -e "vendor,node_modules"
  wildfind /var/log -n "*.log" -e "(^|/)archive$" --exclude-mode=regex`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, v, args[0])
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wildfind.yaml)")
	cmd.Flags().StringP("name", "n", "*", "Wildcard pattern matched against entry names")
	cmd.Flags().StringP("exclude", "e", "", "Directories to exclude (comma-separated)")
	cmd.Flags().String("exclude-mode", "prefix", "Exclusion matching (prefix|regex)")
	cmd.Flags().String("star", "any", "What '*' matches (any|alnum)")
	cmd.Flags().IntP("workers", "w", 0, "Number of concurrent workers (0 = physical cores)")
	cmd.Flags().String("color", "auto", "Highlight matched names (auto|always|never)")
	cmd.Flags().BoolP("verbose", "v", false, "Log skipped entries and walk statistics to stderr")

	for _, name := range []string{"name", "exclude", "exclude-mode", "star", "workers", "color", "verbose"} {
		_ = v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return cmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("wildfind")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	// Search config in home directory with name ".wildfind" (without extension).
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigType("yaml")
	v.SetConfigName(".wildfind")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// settings are the validated inputs of a search.
type settings struct {
	root    string
	match   *pattern.Pattern
	exclude *pattern.ExclusionSet
	workers int
	color   output.ColorMode
	level   walk.LogLevel
}

func loadSettings(v *viper.Viper, dir string) (*settings, error) {
	root, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", dir, err)
	}

	star, err := pattern.ParseStarMode(v.GetString("star"))
	if err != nil {
		return nil, err
	}
	match, err := pattern.Compile(v.GetString("name"), pattern.WithStarMode(star))
	if err != nil {
		return nil, err
	}

	mode, err := pattern.ParseExcludeMode(v.GetString("exclude-mode"))
	if err != nil {
		return nil, err
	}
	exclude, err := pattern.ParseExclusions(v.GetString("exclude"), root, mode)
	if err != nil {
		return nil, err
	}

	workers := v.GetInt("workers")
	if workers < 0 {
		return nil, fmt.Errorf("invalid workers value: %d", workers)
	}

	color, ok := output.ParseColorMode(v.GetString("color"))
	if !ok {
		return nil, fmt.Errorf("%w: color %q (expected auto|always|never)", pattern.ErrInvalidMode, v.GetString("color"))
	}

	level := walk.LogLevelWarn
	if v.GetBool("verbose") {
		level = walk.LogLevelDebug
	}

	return &settings{
		root:    root,
		match:   match,
		exclude: exclude,
		workers: workers,
		color:   color,
		level:   level,
	}, nil
}

func runFind(cmd *cobra.Command, v *viper.Viper, dir string) error {
	s, err := loadSettings(v, dir)
	if err != nil {
		return err
	}

	logger := walk.NewLogger(s.level)
	defer logger.Sync()

	pool := walk.NewPool(s.workers)
	logger.Debug("configuration",
		zap.String("root", s.root),
		zap.String("pattern", s.match.String()),
		zap.Stringer("star", s.match.StarMode()),
		zap.Stringer("exclude_mode", s.exclude.Mode()),
		zap.Int("exclusions", s.exclude.Len()),
		zap.Int("workers", pool.Workers()),
		zap.String("config", v.ConfigFileUsed()),
	)

	printer := output.NewPrinter(cmd.OutOrStdout(), s.color)
	w := walk.New(walk.Options{
		Pattern:  s.match,
		Exclude:  s.exclude,
		Executor: pool,
		Logger:   logger,
	})

	if _, err := w.Walk(context.Background(), s.root, printer.Handle); err != nil {
		return err
	}
	if err := printer.Err(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
