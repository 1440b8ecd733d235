package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/ats"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "path to the resume (.txt, .docx or .pdf)")
	scoreCmd.Flags().String("job-file", "", "read the job description from a file instead of stdin")
	scoreCmd.Flags().Bool("missing", false, "also print job keywords absent from the resume")
	scoreCmd.MarkFlagRequired("resume")
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	log, _, e, err := setup(ctx)
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

	jobText, err := jobDescription(ctx, cmd, e)
	if err != nil {
		return err
	}

	result, err := e.builder.Match(resumeText, jobText)
	if err != nil {
		return err
	}

	log.Debug("scored",
		zap.Float64("earned", result.Earned),
		zap.Float64("possible", result.Possible),
		zap.Int("matched", len(result.Matched)),
	)

	showMissing, _ := cmd.Flags().GetBool("missing")
	printResult(cmd.OutOrStdout(), result, showMissing)
	return nil
}

func printResult(w io.Writer, result ats.Result, showMissing bool) {
	fmt.Fprintf(w, "ATS Score: %.2f%%\n", result.Score)

	fmt.Fprintln(w, "Matched Keywords:")
	for _, term := range result.Matched {
		fmt.Fprintf(w, "- %s\n", term)
	}

	if !showMissing {
		return
	}

	fmt.Fprintln(w, "Missing Keywords:")
	for _, term := range result.Missing {
		fmt.Fprintf(w, "- %s\n", term)
	}
}
