// Package config resolves run settings from defaults, a .env file, the
// environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"handcompare/imageprocessor"
	"handcompare/model"
	"handcompare/visualizer"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to the upper-cased flag name to form its
// environment variable, e.g. --lpips-size becomes HANDCOMPARE_LPIPS_SIZE
const EnvPrefix = "HANDCOMPARE_"

// DefaultEnvFile is loaded when present
const DefaultEnvFile = ".env"

// DefaultDatabasePath is used by history when no database is given
const DefaultDatabasePath = "handcompare.db"

// Config holds every setting of a run
type Config struct {
	Command string

	// compare
	Folder     string
	MineFolder string
	OutputPath string
	ModelPath  string
	ModelRepo  string
	ModelFile  string
	ModelDir   string
	LPIPSSize  int
	SSIMSize   int
	Normalize  bool

	// archive
	DatabasePath string
	HistoryLimit int
	// RunID makes history print the rows of one run
	RunID string

	// plot
	CSVFolder string
	Margin    float64
	FontPath  string
	Width     int
	Height    int
	DPI       float64
	Show      bool

	Debug   bool
	LogPath string
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		OutputPath:   "excel/results.csv",
		ModelFile:    model.DefaultOnnxFile,
		ModelDir:     model.DefaultModelDir,
		LPIPSSize:    imageprocessor.DefaultLPIPSSize,
		SSIMSize:     imageprocessor.DefaultSSIMSize.X,
		HistoryLimit: 20,
		CSVFolder:    "excel",
		Margin:       visualizer.DefaultMargin,
		Width:        visualizer.DefaultWidth,
		Height:       visualizer.DefaultHeight,
		DPI:          visualizer.DefaultDPI,
		Show:         true,
		LogPath:      "handcompare.log",
	}
}

// EnvName returns the environment variable for a flag
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// Load builds the configuration for the parsed command-line args. A .env
// file (args["env"] or DefaultEnvFile) is read first; it never overrides
// variables already set in the environment.
func Load(args map[string]string) (*Config, error) {
	envFile := DefaultEnvFile
	if f, ok := args["env"]; ok && f != "" {
		envFile = f
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("cannot load %s: %w", envFile, err)
		}
	} else if envFile != DefaultEnvFile {
		return nil, fmt.Errorf("cannot access env file %s: %w", envFile, err)
	}

	cfg := Default()
	cfg.Command = args["command"]

	r := resolver{args: args}
	r.str("folder", &cfg.Folder)
	r.str("mine", &cfg.MineFolder)
	r.str("output", &cfg.OutputPath)
	r.str("model", &cfg.ModelPath)
	r.str("model-repo", &cfg.ModelRepo)
	r.str("model-file", &cfg.ModelFile)
	r.str("model-dir", &cfg.ModelDir)
	r.positiveInt("lpips-size", &cfg.LPIPSSize)
	r.positiveInt("ssim-size", &cfg.SSIMSize)
	r.boolean("normalize", &cfg.Normalize)
	r.str("database", &cfg.DatabasePath)
	r.positiveInt("limit", &cfg.HistoryLimit)
	r.str("run", &cfg.RunID)
	r.str("csv-folder", &cfg.CSVFolder)
	r.float("margin", &cfg.Margin)
	r.str("font", &cfg.FontPath)
	r.positiveInt("width", &cfg.Width)
	r.positiveInt("height", &cfg.Height)
	r.float("dpi", &cfg.DPI)
	r.boolean("show", &cfg.Show)
	r.boolean("debug", &cfg.Debug)
	r.str("logfile", &cfg.LogPath)

	if err := errors.Join(r.errs...); err != nil {
		return nil, err
	}
	if cfg.Margin < 0 {
		return nil, fmt.Errorf("invalid margin %v: must not be negative", cfg.Margin)
	}
	if cfg.DPI <= 0 {
		return nil, fmt.Errorf("invalid dpi %v: must be positive", cfg.DPI)
	}
	return cfg, nil
}

// Validate reports the settings the selected command cannot run without
func (c *Config) Validate() error {
	switch c.Command {
	case "compare":
		var missing []string
		if c.Folder == "" {
			missing = append(missing, "--folder")
		}
		if c.MineFolder == "" {
			missing = append(missing, "--mine")
		}
		if c.ModelPath == "" && c.ModelRepo == "" {
			missing = append(missing, "--model or --model-repo")
		}
		if len(missing) > 0 {
			return fmt.Errorf("compare requires %s", strings.Join(missing, ", "))
		}
	case "plot", "history":
	case "":
		return errors.New("missing command")
	default:
		return fmt.Errorf("unknown command: %s", c.Command)
	}
	return nil
}

// RenderOptions returns the chart settings
func (c *Config) RenderOptions() visualizer.RenderOptions {
	opts := visualizer.DefaultRenderOptions()
	opts.Width = c.Width
	opts.Height = c.Height
	opts.DPI = c.DPI
	opts.Margin = c.Margin
	return opts
}

type resolver struct {
	args map[string]string
	errs []error
}

// lookup returns the flag value, falling back to the environment
func (r *resolver) lookup(name string) (string, bool) {
	if v, ok := r.args[name]; ok {
		return v, true
	}
	return os.LookupEnv(EnvName(name))
}

func (r *resolver) str(name string, dst *string) {
	if v, ok := r.lookup(name); ok && v != "" {
		*dst = v
	}
}

func (r *resolver) positiveInt(name string, dst *int) {
	v, ok := r.lookup(name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		r.errs = append(r.errs, fmt.Errorf("invalid --%s value %q: must be a positive integer", name, v))
		return
	}
	*dst = n
}

func (r *resolver) float(name string, dst *float64) {
	v, ok := r.lookup(name)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid --%s value %q: %w", name, v, err))
		return
	}
	*dst = f
}

func (r *resolver) boolean(name string, dst *bool) {
	v, ok := r.lookup(name)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid --%s value %q: %w", name, v, err))
		return
	}
	*dst = b
}
