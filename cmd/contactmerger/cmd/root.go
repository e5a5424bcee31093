// Package cmd implements the contactmerger command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/moazmaksod/YourContactMerger/pkg/logging"
)

var (
	configFile string
	rulesFile  string
	verbose    bool
	quiet      bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "contactmerger",
	Short: "Contact record reconciliation CLI",
	Long: `Contactmerger consolidates contact records from an address-book
export or the live People API with a secondary patient directory.

Records are normalized, deduplicated by name and phone number, enriched
from the directory, and written back out as an importable CSV together
with a full audit trail of every change.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.contactmerger.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "merge rules file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	// Bind flags to viper
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
	if err := viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules")); err != nil {
		panic(fmt.Sprintf("Failed to bind rules flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".contactmerger"
		// (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".contactmerger")
	}

	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	level := zerolog.InfoLevel
	if verbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if quiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	config := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
	}
	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	logging.Configure(config)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil && verbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
		}
	}
}
