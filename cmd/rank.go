package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/ranking"
	"github.com/spigell/resume-ats/internal/utils"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var rankCmd = &cobra.Command{
	Use:   "rank --resume <path> <job files...>",
	Short: "Rank job descriptions by how well a resume matches them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("resume", "r", "", "path to the resume (.txt, .docx or .pdf)")
	rankCmd.Flags().Float64("min-score", 0, "drop job descriptions scoring below this percentage")
	rankCmd.Flags().IntP("workers", "w", ranking.DefaultWorkers, "number of job descriptions scored concurrently")
	rankCmd.Flags().Int("top", 0, "keep only the best N job descriptions (0 keeps all)")
	rankCmd.Flags().StringP("exclude-file", "e", "", "json file with job descriptions to skip")
	rankCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	rankCmd.MarkFlagRequired("resume")

	viper.BindPFlag("rank.min-score", rankCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("rank.workers", rankCmd.Flags().Lookup("workers"))
	viper.BindPFlag("rank.top", rankCmd.Flags().Lookup("top"))
	viper.BindPFlag("rank.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		return fmt.Errorf("unknown output format %q", output)
	}

	log, config, e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer e.Close()

	resumePath, _ := cmd.Flags().GetString("resume")
	resumeText, err := e.extract(ctx, resumePath)
	if err != nil {
		return err
	}

	log.Info("ranking job descriptions",
		zap.Int("count", len(args)),
		zap.Int("workers", config.Rank.Workers),
	)

	ranker := ranking.NewRanker(e.extractor, e.builder, config.Rank.Workers, log)
	entries, err := ranker.Rank(ctx, e.builder.Build(resumeText), args)
	if err != nil {
		return err
	}

	filterConfig := &ranking.Config{
		MinScore:    config.Rank.MinScore,
		Top:         config.Rank.Top,
		ExcludeFile: utils.ExpandHome(config.Rank.ExcludeFile),
	}
	chain := ranking.ChainFor(log, filterConfig)
	for _, status := range chain.Describe() {
		log.Debug("filter",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	entries, _, err = chain.Run(ctx, filterConfig, entries)
	if err != nil {
		return fmt.Errorf("filtering ranked job descriptions: %w", err)
	}

	if output == outputJSON {
		return entries.Dump(cmd.OutOrStdout())
	}

	printEntries(cmd.OutOrStdout(), entries)
	return nil
}

func printEntries(w io.Writer, entries *ranking.Entries) {
	for _, entry := range entries.Items {
		if entry.Failed() {
			fmt.Fprintf(w, "  error  %s: %v\n", entry.Path, entry.Err)
			continue
		}
		fmt.Fprintf(w, "%6.2f%%  %s\n", entry.Result.Score, entry.Path)
	}
}
