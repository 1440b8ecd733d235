// Package ai describes the language-model collaborator that turns an ATS
// score into a written resume review.
package ai

import (
	"context"
	"sort"

	"github.com/spigell/resume-ats/internal/ats"
	"github.com/spigell/resume-ats/internal/resume"
)

// ProviderGemini is the only provider shipped.
const ProviderGemini = "gemini"

// Request carries everything the summarizer may show the model.
type Request struct {
	Profile        *resume.Profile
	ResumeText     string
	JobDescription string
	Score          *ats.Result
}

type Summarizer interface {
	Summarize(ctx context.Context, req Request) (*Analysis, error)
}

// Analysis is the review returned by the model.
type Analysis struct {
	QuickOverview         QuickOverview   `mapstructure:"quick_overview"`
	ScoreBreakdown        ScoreBreakdown  `mapstructure:"score_breakdown"`
	CriticalGaps          map[string]Gap  `mapstructure:"critical_gaps"`
	KeywordAnalysis       KeywordAnalysis `mapstructure:"keyword_analysis"`
	ImprovementPlan       ImprovementPlan `mapstructure:"improvement_plan"`
	SuccessMetrics        SuccessMetrics  `mapstructure:"success_metrics"`
	CustomizedSuggestions []string        `mapstructure:"customized_suggestions"`

	// Raw is the unparsed model reply.
	Raw string `mapstructure:"-"`
}

type QuickOverview struct {
	JobTitleMatch        string `mapstructure:"job_title_match"`
	IndustryFit          string `mapstructure:"industry_fit"`
	ExperienceLevelMatch string `mapstructure:"experience_level_match"`
}

type ScoreBreakdown struct {
	OverallATSScore string `mapstructure:"overall_ATS_score"`
	SkillsMatch     string `mapstructure:"skills_match"`
	ExperienceMatch string `mapstructure:"experience_match"`
	EducationMatch  string `mapstructure:"education_match"`
}

type Gap struct {
	Description string `mapstructure:"description"`
	Suggestions string `mapstructure:"suggestions"`
}

type KeywordAnalysis struct {
	Present   []string `mapstructure:"present_keywords"`
	Missing   []string `mapstructure:"missing_keywords"`
	Suggested []string `mapstructure:"suggested_keywords"`
}

type ImprovementPlan struct {
	Immediate []string `mapstructure:"immediate_changes"`
	ShortTerm []string `mapstructure:"short_term_improvements"`
	LongTerm  []string `mapstructure:"long_term_development"`
}

type SuccessMetrics struct {
	CurrentSuccessRate  string `mapstructure:"current_application_success_rate"`
	ExpectedSuccessRate string `mapstructure:"expected_success_after_improvements"`
	TimeToImplement     string `mapstructure:"time_to_implement_all_changes"`
}

// Gaps returns the critical gaps ordered by their keys (gap_1, gap_2, ...).
func (a *Analysis) Gaps() []Gap {
	keys := make([]string, 0, len(a.CriticalGaps))
	for key := range a.CriticalGaps {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	gaps := make([]Gap, 0, len(keys))
	for _, key := range keys {
		gaps = append(gaps, a.CriticalGaps[key])
	}
	return gaps
}
