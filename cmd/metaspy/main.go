package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/On-Jun9/MetaSpy/internal/config"
	"github.com/On-Jun9/MetaSpy/internal/log"
	"github.com/On-Jun9/MetaSpy/internal/metadata"
	"github.com/On-Jun9/MetaSpy/internal/pipeline"
	"github.com/On-Jun9/MetaSpy/internal/report"
	"github.com/On-Jun9/MetaSpy/internal/scanner"
	"github.com/On-Jun9/MetaSpy/internal/sink"
	"github.com/On-Jun9/MetaSpy/pkg/types"
	"github.com/spf13/cobra"
)

var (
	appVersion   = "1.3.0"
	cfgFile      string
	output       string
	outputDir    string
	jobs         int
	recursive    bool
	timeout      time.Duration
	mapsURL      string
	logFile      string
	logJSON      bool
	s3Bucket     string
	s3Prefix     string
	s3Region     string
	printSummary bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "metaspy [files...]",
	Short: "Extract hidden metadata from documents and images",
	Long: `MetaSpy extracts embedded metadata (authors, timestamps, revisions, GPS)
from PDF, Office (docx/pptx/xlsx) and image files and writes a consolidated report.`,
	Example:       "  metaspy mydoc.docx myphoto.jpg mydata.xlsx -o json",
	Args:          cobra.MinimumNArgs(1),
	RunE:          runAnalysis,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "report format: print, txt, csv, json (default print)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for report files")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of concurrent extractions (default 1)")
	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "expand directory arguments")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "per-file extraction timeout (0 = none)")
	rootCmd.Flags().StringVar(&mapsURL, "maps-url", "", "base URL for geolocation links")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.Flags().BoolVar(&logJSON, "log-json", false, "output JSON logs")
	rootCmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "upload report files to this S3 bucket")
	rootCmd.Flags().StringVar(&s3Prefix, "s3-prefix", "", "key prefix for uploaded reports")
	rootCmd.Flags().StringVar(&s3Region, "s3-region", "", "AWS region of the S3 bucket")
	rootCmd.Flags().BoolVar(&printSummary, "summary", false, "print run statistics after the report")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if output != "" {
		cfg.Output = types.OutputMode(output)
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}
	if flags.Changed("recursive") {
		cfg.Recursive = recursive
	}
	if flags.Changed("timeout") {
		cfg.ExtractTimeout = timeout
	}
	if mapsURL != "" {
		cfg.MapsURL = mapsURL
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logJSON {
		cfg.LogJSON = true
	}
	if s3Bucket != "" {
		cfg.S3Bucket = s3Bucket
	}
	if s3Prefix != "" {
		cfg.S3Prefix = s3Prefix
	}
	if s3Region != "" {
		cfg.S3Region = s3Region
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := log.New(log.Options{
		FilePath:   cfg.LogFile,
		JSON:       cfg.LogJSON,
		Text:       !cfg.LogJSON,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Console:    os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Console("🕵️  Starting MetaSpy analysis...")

	paths, err := scanner.New(metadata.New(0).SupportedExtensions(), cfg.Recursive).Expand(args)
	if err != nil {
		logger.Warn(fmt.Sprintf("⚠️ Warning: %v", err))
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	rep, summary := p.Run(ctx, paths)

	if err := emit(ctx, cfg, logger, rep); err != nil {
		logger.Error("report output failed", err)
		return err
	}

	if printSummary {
		logger.Summary(summary)
	}
	return nil
}

// emit renders the report in the configured mode and ships file reports to
// the S3 sink when one is configured.
func emit(ctx context.Context, cfg *config.Config, logger *log.Logger, rep types.Report) error {
	mode := cfg.Output
	if !mode.IsFile() {
		return report.WriteConsole(os.Stdout, rep)
	}

	path, err := report.Save(mode, cfg.OutputDir, rep, time.Now())
	if errors.Is(err, report.ErrNoData) {
		logger.Console("⚠️ No data to write.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write %s report: %w", mode, err)
	}
	logger.Console("✅ Report saved to %s", path)

	if cfg.S3Bucket == "" {
		return nil
	}
	s3Sink, err := sink.NewS3(ctx, sink.Options{
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.S3Prefix,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create S3 sink: %w", err)
	}
	location, err := s3Sink.Upload(ctx, path, report.ContentType(mode))
	if err != nil {
		return err
	}
	logger.Console("✅ Report uploaded to %s", location)
	return nil
}
