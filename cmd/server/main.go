// @title         CurriculumGen API
// @version       1.0
// @description   Chat assistant for teachers: forwards typed text or PDF/DOCX content to a language model and structures tabular replies.
// @BasePath      /
// @schemes       http
// @host          localhost:5000
package main

import (
	"log"

	"github.com/spf13/cobra"

	_ "github.com/artem13815/curriculumgen/docs"
	"github.com/artem13815/curriculumgen/pkg/config"
)

var (
	flagPort    string
	flagEnvFile string
)

var rootCmd = &cobra.Command{
	Use:   "curriculumgen",
	Short: "CurriculumGen chat assistant HTTP server",
	Long: `Serves the CurriculumGen chat UI and JSON API.

Configuration is read from the environment and an optional .env file.
GEMINI_API_KEY is required (OPENROUTER_API_KEY with LLM_PROVIDER=openrouter).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagPort, "port", "p", "", "listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&flagEnvFile, "env-file", "", "path to a .env file (default .env)")
}

func serve() error {
	var cfg config.Config
	if flagEnvFile != "" {
		cfg = config.Load(flagEnvFile)
	} else {
		cfg = config.Load()
	}
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	profile, err := config.LoadProfile(cfg.ModelProfilePath)
	if err != nil {
		log.Fatalf("model profile: %v", err)
	}

	app, err := newApp(cfg, profile)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	log.Printf("HTTP server listening on :%s (provider %s)", cfg.Port, cfg.LLMProvider)
	return app.Listen(":" + cfg.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
