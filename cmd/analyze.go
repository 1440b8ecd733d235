package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/ai"
	"github.com/spigell/resume-ats/internal/ai/gemini"
	"github.com/spigell/resume-ats/internal/ats"
	"github.com/spigell/resume-ats/internal/resume"
	"github.com/spigell/resume-ats/internal/secrets"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errDeclined = errors.New("sending the resume was declined")

var confirmPrompt = promptui.Select{
	Label: "Send the resume and the job description to the language model?",
	Items: []string{PromptYes, PromptNo},
}

// confirm is replaced in tests.
var confirm = func() (bool, error) {
	_, answer, err := confirmPrompt.Run()
	if err != nil {
		return false, err
	}
	return answer == PromptYes, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume and ask a language model for a written review",
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to the resume (.txt, .docx or .pdf)")
	analyzeCmd.Flags().String("job-file", "", "read the job description from a file instead of stdin")
	analyzeCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before contacting the model")
	analyzeCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	analyzeCmd.Flags().String("tone", "", "tone of the review")
	analyzeCmd.Flags().String("target-role", "", "role the resume is aimed at")
	analyzeCmd.Flags().String("focus", "", "what the review should concentrate on")
	analyzeCmd.Flags().String("instructions", "", "extra instructions for the model, one per line")
	analyzeCmd.MarkFlagRequired("resume")

	viper.BindPFlag("ai.prompt.tone", analyzeCmd.Flags().Lookup("tone"))
	viper.BindPFlag("ai.prompt.target-role", analyzeCmd.Flags().Lookup("target-role"))
	viper.BindPFlag("ai.prompt.focus", analyzeCmd.Flags().Lookup("focus"))
	viper.BindPFlag("ai.prompt.instructions", analyzeCmd.Flags().Lookup("instructions"))
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
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

	jobText, err := jobDescription(ctx, cmd, e)
	if err != nil {
		return err
	}

	req := ai.Request{
		Profile:        resume.Parse(resumeText),
		ResumeText:     resumeText,
		JobDescription: jobText,
	}

	result, err := e.builder.Match(resumeText, jobText)
	switch {
	case err == nil:
		req.Score = &result
		if output == outputText {
			printResult(cmd.OutOrStdout(), result, false)
		}
	case errors.Is(err, ats.ErrNoJobKeywords):
		log.Warn("job description has no keywords, the review goes without a score")
	default:
		return err
	}

	if req.Profile.IsEmpty() {
		log.Warn("no resume sections recognised, the model only gets the plain text")
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := confirm()
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !ok {
			log.Info("exiting", zap.String("reason", "got no from prompt"))
			return errDeclined
		}
	}

	summarizer, err := newSummarizer(ctx, config.AI, log)
	if err != nil {
		return fmt.Errorf("building summarizer: %w", err)
	}

	analysis, err := summarizer.Summarize(ctx, req)
	if err != nil {
		return fmt.Errorf("analyzing resume: %w", err)
	}

	if output == outputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), analysis.Raw)
		return nil
	}

	printAnalysis(cmd.OutOrStdout(), analysis)
	return nil
}

func newSummarizer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Summarizer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != ai.ProviderGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	summarizer := gemini.NewSummarizer(generator, logger, cfg.Gemini.MaxLogLength)
	summarizer.SetPromptOverrides(gemini.PromptOverrides{
		Tone:             cfg.Prompt.Tone,
		TargetRole:       cfg.Prompt.TargetRole,
		Focus:            cfg.Prompt.Focus,
		UserInstructions: cfg.Prompt.Instructions,
	})

	return summarizer, nil
}

func printAnalysis(w io.Writer, a *ai.Analysis) {
	section := func(title string) {
		fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	}
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s: %s\n", name, value)
		}
	}
	list := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		if name != "" {
			fmt.Fprintf(w, "%s:\n", name)
		}
		for _, item := range items {
			fmt.Fprintf(w, "- %s\n", item)
		}
	}

	section("Quick Overview")
	field("Job title match", a.QuickOverview.JobTitleMatch)
	field("Industry fit", a.QuickOverview.IndustryFit)
	field("Experience level", a.QuickOverview.ExperienceLevelMatch)

	section("Score Breakdown")
	field("Overall ATS score", a.ScoreBreakdown.OverallATSScore)
	field("Skills", a.ScoreBreakdown.SkillsMatch)
	field("Experience", a.ScoreBreakdown.ExperienceMatch)
	field("Education", a.ScoreBreakdown.EducationMatch)

	if gaps := a.Gaps(); len(gaps) > 0 {
		section("Critical Gaps")
		for i, gap := range gaps {
			fmt.Fprintf(w, "%d. %s\n", i+1, gap.Description)
			if gap.Suggestions != "" {
				fmt.Fprintf(w, "   Suggestion: %s\n", gap.Suggestions)
			}
		}
	}

	section("Keywords")
	list("Present", a.KeywordAnalysis.Present)
	list("Missing", a.KeywordAnalysis.Missing)
	list("Suggested", a.KeywordAnalysis.Suggested)

	section("Improvement Plan")
	list("Immediate", a.ImprovementPlan.Immediate)
	list("Short term", a.ImprovementPlan.ShortTerm)
	list("Long term", a.ImprovementPlan.LongTerm)

	section("Success Metrics")
	field("Current success rate", a.SuccessMetrics.CurrentSuccessRate)
	field("Expected after improvements", a.SuccessMetrics.ExpectedSuccessRate)
	field("Time to implement", a.SuccessMetrics.TimeToImplement)

	if len(a.CustomizedSuggestions) > 0 {
		section("Suggestions")
		list("", a.CustomizedSuggestions)
	}
}
