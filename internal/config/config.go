package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Page sizes
	PageSizeA4     = "A4"
	PageSizeLetter = "Letter"

	// Default values
	DefaultPort             = 8080
	DefaultHost             = "127.0.0.1"
	DefaultLogLevel         = "info"
	DefaultMaxFileSize      = 50 * 1024 * 1024 // 50MB
	DefaultMaxSignatureSize = 2 * 1024 * 1024  // 2MB
	DefaultPageSize         = PageSizeA4
	DefaultTimeout          = 30 * time.Second
	DefaultWorkers          = 4

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, as in FIELDFORMS_OUTPUT
	EnvPrefix = "FIELDFORMS"
)

// ErrVersionRequested is returned by Load when --version is on the command line
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the field forms server and CLI
type Config struct {
	// Server configuration
	Mode string // "stdio" or "server"
	Host string
	Port int

	// Output configuration
	OutputDirectory string

	// Rendering configuration
	PageSize         string
	Company          string
	Draft            bool  // watermark documents with missing signatures
	MaxSignatureSize int   // Maximum decoded signature image size in bytes
	MaxFileSize      int64 // Maximum PDF file size in bytes
	Timeout          time.Duration
	Workers          int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	ConfigFile string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		OutputDirectory:  filepath.Join(currentDir, "documents"),
		PageSize:         DefaultPageSize,
		MaxSignatureSize: DefaultMaxSignatureSize,
		MaxFileSize:      DefaultMaxFileSize,
		Timeout:          DefaultTimeout,
		Workers:          DefaultWorkers,
		Version:          "1.0.0",
		ServerName:       "fieldforms",
		LogLevel:         DefaultLogLevel,
	}
}

// LoadFromFlags parses the process command line and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:], os.Stderr)
}

// Load builds a configuration from defaults, an optional config file,
// FIELDFORMS_* environment variables and args, in increasing precedence
func Load(program string, args []string, usage io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	if checkVersionFlag(args) {
		return nil, ErrVersionRequested
	}

	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)
	flags.SetOutput(usage)
	defineCommandLineFlags(flags, cfg)
	setupUsageMessage(flags, program, usage)

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	bindFlagsToViper(v, flags)

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	populateConfigFromViper(v, cfg)

	if cfg.OutputDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDirectory); err == nil {
			cfg.OutputDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("output", cfg.OutputDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("maxsignature", cfg.MaxSignatureSize)
	v.SetDefault("pagesize", cfg.PageSize)
	v.SetDefault("company", cfg.Company)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("draft", cfg.Draft)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("output", cfg.OutputDirectory, "Directory exported documents are written to")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	flags.Int("maxsignature", cfg.MaxSignatureSize, "Maximum decoded signature image size in bytes")
	flags.String("pagesize", cfg.PageSize, "Page size (A4, Letter)")
	flags.String("company", cfg.Company, "Company name printed in the document header")
	flags.Duration("timeout", cfg.Timeout, "Maximum time to render one document")
	flags.Int("workers", cfg.Workers, "Number of documents rendered concurrently in a batch")
	flags.Bool("draft", cfg.Draft, "Watermark documents with missing signatures as DRAFT")
	flags.String("config", "", "Optional config file (YAML, TOML or JSON)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(flags *pflag.FlagSet, program string, w io.Writer) {
	flags.Usage = func() {
		fmt.Fprintf(w, "Usage of %s:\n", program)
		fmt.Fprintf(w, "\nField Forms - render field-service forms into PDF documents over MCP\n\n")
		fmt.Fprintf(w, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  %s                                   # stdio mode, ./documents (default)\n", program)
		fmt.Fprintf(w, "  %s --output=/srv/forms --draft       # custom directory, stamp unsigned\n", program)
		fmt.Fprintf(w, "  %s --mode=server --port=8081         # HTTP/SSE server\n", program)
		fmt.Fprintf(w, "  %s --config=/etc/fieldforms.yaml     # settings from a file\n", program)
		fmt.Fprintf(w, "\nEnvironment Variables:\n")
		fmt.Fprintf(w, "  FIELDFORMS_MODE          Server mode\n")
		fmt.Fprintf(w, "  FIELDFORMS_OUTPUT        Output directory\n")
		fmt.Fprintf(w, "  FIELDFORMS_LOGLEVEL      Log level\n")
		fmt.Fprintf(w, "  FIELDFORMS_PAGESIZE      Page size\n")
		fmt.Fprintf(w, "  FIELDFORMS_COMPANY       Company name\n")
		fmt.Fprintf(w, "  FIELDFORMS_TIMEOUT       Render timeout\n")
		fmt.Fprintf(w, "  FIELDFORMS_WORKERS       Batch workers\n")
		fmt.Fprintf(w, "  FIELDFORMS_DRAFT         Draft watermark\n")
		fmt.Fprintf(w, "  FIELDFORMS_MAXFILESIZE   Maximum file size\n")
		fmt.Fprintf(w, "  FIELDFORMS_MAXSIGNATURE  Maximum signature size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.OutputDirectory = v.GetString("output")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.MaxSignatureSize = v.GetInt("maxsignature")
	cfg.PageSize = v.GetString("pagesize")
	cfg.Company = v.GetString("company")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.Workers = v.GetInt("workers")
	cfg.Draft = v.GetBool("draft")
	cfg.ConfigFile = v.ConfigFileUsed()
}

// Validate checks if the configuration is valid. The output directory is
// created when missing.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}

	if _, err := os.Stat(c.OutputDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.MaxSignatureSize <= 0 {
		return errors.New("maximum signature size must be positive")
	}

	if c.PageSize != PageSizeA4 && c.PageSize != PageSizeLetter {
		return fmt.Errorf("invalid page size: %s (must be one of: A4, Letter)", c.PageSize)
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, OutputDirectory: %s, PageSize: %s, "+
		"Draft: %t, Timeout: %s, Workers: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.OutputDirectory, c.PageSize,
		c.Draft, c.Timeout, c.Workers, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
