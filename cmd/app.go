// Package cmd implements the cfp command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cashflow"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "reports")
	c.Register(&balanceCmd{}, "reports")
	c.Register(&statementCmd{}, "reports")
	c.Register(&txCmd{}, "reports")
	c.Register(&projectCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")

	c.Register(&addAccountCmd{}, "book")
	c.Register(&recordCmd{}, "book")
	c.Register(&commitCmd{}, "book")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile   = flag.String("config", "", "config file (default: $HOME/.config/cashflow/config.yaml)")
	bookFile     = flag.String("book", "", "path to the book file, JSON or YAML (default: book.json)")
	outputFormat = flag.String("format", "", "output format: terminal, markdown or html (default: terminal)")
	logLevel     = flag.String("log-level", "", "log level: debug, info, warn or error (default: warn)")
	logFormat    = flag.String("log-format", "", "log format: console or json (default: console)")
)

// stdout is where reports are written.
var stdout io.Writer = os.Stdout

// InitConfig loads the configuration and sets up logging. It must be called after flag.Parse.
//
// Values are read from, by order of precedence: global flags, CASHFLOW_* environment
// variables (a .env file in the working directory is loaded first), the config file, defaults.
func InitConfig() error {
	setDefaults()

	if *configFile != "" {
		viper.SetConfigFile(*configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/cashflow")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	for key, value := range map[string]string{
		"book":           *bookFile,
		"format":         *outputFormat,
		"logging.level":  *logLevel,
		"logging.format": *logFormat,
	} {
		if value != "" {
			viper.Set(key, value)
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.Debug("configuration loaded", "config", viper.ConfigFileUsed(), "book", viper.GetString("book"))
	return nil
}

// setDefaults registers the default values and the CASHFLOW_* environment variables.
// Shell completion runs before the flags are parsed and only relies on these.
func setDefaults() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetDefault("book", "book.json")
	viper.SetDefault("horizon", "+1y")
	viper.SetDefault("format", "terminal")
	viper.SetDefault("currency", "EUR")
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "console")

	viper.SetEnvPrefix("CASHFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func setupLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	switch format {
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// BookPath returns the path of the book file in use.
func BookPath() string { return viper.GetString("book") }

// DecodeBook loads the book file. A missing file is an empty book.
func DecodeBook() (*cashflow.Book, error) {
	b, err := cashflow.LoadBook(BookPath())
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("book does not exist, starting an empty one", "path", BookPath())
		return &cashflow.Book{}, nil
	}
	return b, err
}

// DecodeLedger loads the book file and builds its ledger.
func DecodeLedger() (*cashflow.Book, *cashflow.Ledger, error) {
	b, err := DecodeBook()
	if err != nil {
		return nil, nil, err
	}
	l, err := cashflow.NewLedgerFromBook(b)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid book %q: %w", BookPath(), err)
	}
	return b, l, nil
}

// EncodeBook saves the book file.
func EncodeBook(b *cashflow.Book) error {
	if err := cashflow.SaveBook(BookPath(), b); err != nil {
		return err
	}
	slog.Info("book saved", "path", BookPath())
	return nil
}

// printMarkdown writes a markdown report in the configured output format.
func printMarkdown(report string) error {
	switch f := viper.GetString("format"); f {
	case "markdown", "md":
		_, err := io.WriteString(stdout, report)
		return err
	case "html":
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		return md.Convert([]byte(report), stdout)
	case "terminal":
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err != nil {
			return err
		}
		out, err := r.Render(report)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, out)
		return err
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}
