package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hiringtools/cv-screener/internal/ai/gemini"
	"github.com/hiringtools/cv-screener/internal/export"
	"github.com/hiringtools/cv-screener/internal/ingest"
	"github.com/hiringtools/cv-screener/internal/logger"
	"github.com/hiringtools/cv-screener/internal/mailer"
	"github.com/hiringtools/cv-screener/internal/screening"
	"github.com/hiringtools/cv-screener/internal/secrets"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultOutputCSV = "processed_resumes.csv"
)

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cv-screener batch evaluation",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before processing the batch")
	runCmd.Flags().String("resumes", "", "directory or zip archive with resumes (PDF/DOCX)")
	runCmd.Flags().String("jobs", "", "CSV file with Job Title and Job Description columns")
	runCmd.Flags().String("out", "", "path for the exported CSV table")
	runCmd.Flags().String("excel", "", "optional path for an XLSX report")

	viper.BindPFlag("input.resumes", runCmd.Flags().Lookup("resumes"))
	viper.BindPFlag("input.jobs", runCmd.Flags().Lookup("jobs"))
	viper.BindPFlag("output.csv", runCmd.Flags().Lookup("out"))
	viper.BindPFlag("output.excel", runCmd.Flags().Lookup("excel"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.AI == nil || config.AI.Gemini == nil {
		logger.Fatal("gemini configuration is required under the ai section")
	}

	// Configuration problems are fatal here, before any pair is processed.
	if config.Mail == nil {
		config.Mail = &mailer.Config{}
	}
	if err := config.Mail.Validate(); err != nil {
		logger.Fatal("validating mail configuration", zap.Error(err))
	}

	judge := buildJudge(ctx, config.AI, logger)
	dispatcher := mailer.NewDispatcher(config.Mail, nil, logger)

	resumesPath := viper.GetString("input.resumes")
	if resumesPath == "" {
		logger.Fatal("resumes path is required under input.resumes or via --resumes")
	}

	jobsPath := viper.GetString("input.jobs")
	if jobsPath == "" {
		logger.Fatal("jobs csv path is required under input.jobs or via --jobs")
	}

	resumes, err := ingest.LoadResumes(resumesPath, logger)
	if err != nil {
		logger.Fatal("loading resumes", zap.Error(err))
	}

	if len(resumes) == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes found"))
		return
	}

	jobs, err := readJobs(jobsPath, logger)
	if err != nil {
		logger.Fatal("reading job table", zap.Error(err))
	}

	if len(jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no job rows found"))
		return
	}

	logger.Info("batch prepared",
		zap.Int("resumes", len(resumes)),
		zap.Int("jobs", len(jobs)),
		zap.Int("pairs", len(resumes)*len(jobs)),
	)

	if cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	runner := screening.NewRunner(judge, dispatcher, logger)
	result := runner.Run(ctx, resumes, jobs)

	outPath := viper.GetString("output.csv")
	if outPath == "" {
		outPath = defaultOutputCSV
	}

	if err := export.WriteCSVFile(outPath, result); err != nil {
		logger.Fatal("exporting csv", zap.Error(err))
	}
	logger.Info("exported batch result", zap.String("filename", outPath))

	if excelPath := viper.GetString("output.excel"); excelPath != "" {
		if err := export.WriteExcel(excelPath, result); err != nil {
			logger.Fatal("exporting excel report", zap.Error(err))
		}
		logger.Info("exported excel report", zap.String("filename", excelPath))
	}
}

func buildJudge(ctx context.Context, cfg *AIConfig, logger *zap.Logger) *gemini.Judge {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
	if err != nil {
		logger.Fatal("building gemini generator", zap.Error(err))
	}

	return gemini.NewJudge(generator, cfg.Threshold, cfg.Gemini.MaxLogLength, logger)
}

func readJobs(path string, logger *zap.Logger) ([]screening.JobPosting, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening job table: %w", err)
	}
	defer file.Close()

	return screening.ReadJobs(file, logger)
}
