// Command rank scores local resume files against a job description without
// starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/app"
	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "rank --jd <file> <resume>...",
	Short: "Rank resumes against a job description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().String("jd", "", "job description file (pdf, docx or txt)")
	rootCmd.Flags().String("token", "", "job token to report progress under")
	rootCmd.Flags().String("skills", "", "YAML skill dictionary (default is the built-in one)")
	rootCmd.Flags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.Flags().BoolP("json", "j", false, "json format for logging")
	_ = rootCmd.MarkFlagRequired("jd")

	viper.BindPFlag("jd", rootCmd.Flags().Lookup("jd"))
	viper.BindPFlag("token", rootCmd.Flags().Lookup("token"))
	viper.BindPFlag("skills", rootCmd.Flags().Lookup("skills"))
	viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, resumePaths []string) error {
	cfg := config.Load()
	cfg.Ledger.Backend = "memory"
	cfg.Redis.Enabled = false
	if path := viper.GetString("skills"); path != "" {
		cfg.Analysis.SkillDictionaryPath = path
	}

	level, format := cfg.Log.Level, "console"
	if viper.GetBool("debug") {
		level = "debug"
	}
	if viper.GetBool("json") {
		format = "json"
	}
	log, err := logger.New(format, level, "stderr")
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ledger, _, err := app.NewLedger(ctx, cfg, log)
	if err != nil {
		return err
	}
	orchestrator, err := app.NewOrchestrator(ctx, cfg, ledger, log)
	if err != nil {
		return err
	}

	jd, err := readUpload(viper.GetString("jd"))
	if err != nil {
		return err
	}
	resumes := make([]models.Upload, 0, len(resumePaths))
	for _, path := range resumePaths {
		upload, err := readUpload(path)
		if err != nil {
			return err
		}
		resumes = append(resumes, upload)
	}

	report, err := orchestrator.Analyze(ctx, services.AnalyzeRequest{
		JobDescription: jd,
		Resumes:        resumes,
		JobToken:       viper.GetString("token"),
	})
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func readUpload(path string) (models.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Upload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return models.Upload{Filename: filepath.Base(path), Data: data}, nil
}
