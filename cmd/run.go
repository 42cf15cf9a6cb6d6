package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/export"
	"github.com/spigell/talentscout/internal/extract"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/screening"
	"github.com/spigell/talentscout/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowGuides  = "Show interview guides"
	PromptExportExcel = "Export report to xlsx"
	PromptDumpToFile  = "Dump results to file"
	PromptBack        = "back"
	PromptExit        = "Exit"
	defaultOutputPath = "screening-report.xlsx"
	defaultThreshold  = 60
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowGuides, PromptExportExcel, PromptDumpToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the talentscout screening batch",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("jd-file", "s", "", "file with the job description text")
	runCmd.Flags().StringP("resume-dir", "r", "", "directory with candidate resumes (pdf, docx, txt, md)")
	runCmd.Flags().IntP("threshold", "t", defaultThreshold, "minimum score to shortlist a candidate (0-100)")
	runCmd.Flags().StringP("output", "o", defaultOutputPath, "path for the xlsx report")
	runCmd.Flags().BoolP("auto-approve", "y", false, "export the report and exit without the interactive menu")

	viper.BindPFlag("jd-file", runCmd.Flags().Lookup("jd-file"))
	viper.BindPFlag("resume-dir", runCmd.Flags().Lookup("resume-dir"))
	viper.BindPFlag("threshold", runCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("output", runCmd.Flags().Lookup("output"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %s\n", err)
		os.Exit(1)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the talentscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		log.Fatal("config is required")
	}

	if config.JDFile == "" {
		log.Fatal("a job description file is required", zap.String("hint", "set 'jd-file' in the config or use the --jd-file flag"))
	}

	if config.ResumeDir == "" {
		log.Fatal("a resume directory is required", zap.String("hint", "set 'resume-dir' in the config or use the --resume-dir flag"))
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		log.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	jdText, err := readDocument(config.JDFile)
	if err != nil {
		log.Fatal("reading job description", zap.Error(err))
	}

	resumes, err := loadResumes(config.ResumeDir, log)
	if err != nil {
		log.Fatal("loading resumes", zap.Error(err))
	}

	log.Info("loaded resumes", zap.Int("count", len(resumes)))

	geminiCfg := &GeminiConfig{}
	if config.AI != nil && config.AI.Gemini != nil {
		geminiCfg = config.AI.Gemini
	}

	genLogger := log.With(
		zap.String("provider", "gemini"),
		zap.String("model", geminiCfg.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model, geminiCfg.FallbackModel, genLogger)
	if err != nil {
		log.Fatal("building the gemini generator", zap.Error(err))
	}

	pipeline := screening.NewPipeline(generator, genLogger, geminiCfg.MaxLogLength)
	runner := screening.NewRunner(pipeline, config.Threshold, config.Pause, log)

	log.Info("starting the screening batch",
		zap.Int("threshold", runner.Threshold()),
		zap.Int("resumes", len(resumes)),
	)

	result := runner.Run(ctx, jdText, resumes)

	for i, candidate := range result.Candidates {
		log.Info("candidate evaluated",
			zap.Int("rank", i+1),
			zap.String("name", candidate.Name),
			zap.Int("score", candidate.Score),
			zap.String("status", string(candidate.Status)),
			zap.String("filename", candidate.Filename),
		)
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := exportReport(result, config.Output, log); err != nil {
			log.Fatal("exporting report", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, result, config, log); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, result *screening.Result, config *Config, log *zap.Logger) error {
	switch action {
	case PromptShowGuides:
		return showGuides(result, log)
	case PromptExportExcel:
		return exportReport(result, config.Output, log)
	case PromptDumpToFile:
		filename, err := export.ToTmpJSON(result)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		log.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func exportReport(result *screening.Result, output string, log *zap.Logger) error {
	if output == "" {
		output = defaultOutputPath
	}

	path, err := export.ToExcel(result, output)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	log.Info("report exported", zap.String("path", path))
	return nil
}

func showGuides(result *screening.Result, log *zap.Logger) error {
	shortlisted := result.Shortlisted()
	if len(shortlisted) == 0 {
		log.Info("no candidates met the minimum score threshold")
		return nil
	}

	for {
		items := make([]string, 0, len(shortlisted)+1)
		for _, candidate := range shortlisted {
			items = append(items, fmt.Sprintf("%s (score: %d) / %s", candidate.Name, candidate.Score, candidate.Filename))
		}

		guidePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, selected, err := guidePrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		candidate := shortlisted[idx]
		if candidate.Guide == nil {
			log.Info("no guide was generated for this candidate", zap.String("name", candidate.Name))
			continue
		}

		pretty, _ := json.MarshalIndent(candidate.Guide, "", "  ")
		log.Info(fmt.Sprintf("interview guide for %s: \n%s", candidate.Name, pretty))
	}
}

func resolveAPIKey(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	src := secrets.Source{Name: "gemini api key"}
	if config.AI != nil && config.AI.Gemini != nil {
		src.Value = config.AI.Gemini.APIKey
		src.File = config.AI.Gemini.APIKeyFile
	}

	return secrets.Load(src)
}

// readDocument loads the job description. Known document formats go
// through the extractor, anything else is read as plain text.
func readDocument(path string) (string, error) {
	if extract.Supported(path) {
		return extract.FromFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// loadResumes collects all supported documents from the directory. A file
// that fails extraction is skipped with a warning; it must not block the
// rest of the batch.
func loadResumes(dir string, log *zap.Logger) ([]screening.Resume, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resume directory: %w", err)
	}

	resumes := make([]screening.Resume, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !extract.Supported(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		text, err := extract.FromFile(path)
		if err != nil {
			log.Warn("skipping resume, extraction failed",
				zap.String("filename", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		if strings.TrimSpace(text) == "" {
			log.Warn("skipping resume, no text content", zap.String("filename", entry.Name()))
			continue
		}

		resumes = append(resumes, screening.Resume{Filename: entry.Name(), Text: text})
	}

	if len(resumes) == 0 {
		return nil, fmt.Errorf("no readable resumes found in %s", dir)
	}

	return resumes, nil
}
