package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"vahan-rc-bot/config"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "vahanbot",
	Short:         "Telegram bot that looks up vehicle registration details",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to the .env file")
	rootCmd.PersistentFlags().String("base-url", "", "Override the registry base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Override the registry request timeout")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("env_file", rootCmd.PersistentFlags().Lookup("env-file"))

	config.Bind(viper.GetViper())

	rootCmd.AddCommand(serveCmd, lookupCmd)
}

func initConfig() {
	config.LoadEnv(viper.GetString("env_file"))

	// Flags only override when set so env values keep priority over flag defaults.
	flags := rootCmd.PersistentFlags()
	if flags.Changed("base-url") {
		u, _ := flags.GetString("base-url")
		viper.Set("scrape_base_url", u)
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		viper.Set("scrape_timeout", d)
	}
}

func initLogger() {
	level := slog.LevelInfo
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
