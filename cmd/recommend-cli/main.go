// cmd/recommend-cli/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"assessment-recommender/internal/client"
	"assessment-recommender/internal/common/config"
	"assessment-recommender/internal/common/logger"
)

const app = "recommend-cli"

// Actual version can be specified in build command.
var version = "unknown"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "recommend-cli queries the assessment recommender API and renders ranked results",
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("%s version: %s\n", app, version)
		},
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check the recommender service health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return health(cmd)
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is configs/config.yaml)")
	rootCmd.PersistentFlags().StringP("server", "s", "", "base URL of the recommender service")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI colors in the results table")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Client.BaseURL = server
	}
	return cfg, nil
}

func newClient(cmd *cobra.Command) (*client.Client, *config.Config, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	return client.New(cfg.Client, loggerFor("warn")), cfg, nil
}

func loggerFor(level string) logger.Logger {
	if viper.GetBool("debug") {
		level = "debug"
	}
	return logger.NewZapAdapter(logger.New(level, "console"))
}

func health(cmd *cobra.Command) error {
	c, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	status, err := c.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check against %s: %w", cfg.Client.BaseURL, err)
	}

	fmt.Printf("status:               %s\n", status.Status)
	fmt.Printf("service:              %s\n", status.Service)
	fmt.Printf("assessments loaded:   %d\n", status.AssessmentsLoaded)
	fmt.Printf("model:                %s\n", status.Model)
	fmt.Printf("embedding dimension:  %d\n", status.EmbeddingDimension)
	return nil
}
