package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/ai"
	"github.com/spigell/resume-ats/internal/utils"
)

var ErrEmptyAnalysis = errors.New("model returned an empty analysis")

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed system.md
var systemPrompt string

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength     = 200
	defaultTone             = "Professional"
	maxSingleLineRunes      = 200
	maxUserInstructionRunes = 400
	maxUserInstructionLines = 5
	maxPromptKeywords       = 30
	noneValue               = "none"
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// PromptOverrides are user preferences placed in the prompt. They are
// sanitized to single lines so that they cannot open new prompt sections.
type PromptOverrides struct {
	Tone             string
	TargetRole       string
	Focus            string
	UserInstructions string
}

type Summarizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

func NewSummarizer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Summarizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Summarizer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (s *Summarizer) SetPromptOverrides(o PromptOverrides) {
	s.overrides = o
}

// Summarize asks the model for a review of the resume against the job
// description and decodes the reply.
func (s *Summarizer) Summarize(ctx context.Context, req ai.Request) (*ai.Analysis, error) {
	if strings.TrimSpace(req.ResumeText) == "" && req.Profile == nil {
		return nil, errors.New("resume is required")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, errors.New("job description is required")
	}

	message, err := s.buildMessage(req)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	analysis.Raw = raw
	return analysis, nil
}

func (s *Summarizer) buildMessage(req ai.Request) (string, error) {
	profileJSON := "{}"
	if req.Profile != nil {
		out, err := req.Profile.JSON()
		if err != nil {
			return "", fmt.Errorf("marshal resume profile: %w", err)
		}
		profileJSON = out
	}

	score, matched, missing := "not computed", noneValue, noneValue
	if req.Score != nil {
		score = fmt.Sprintf("%.2f%%", req.Score.Score)
		matched = keywordList(req.Score.Matched)
		missing = keywordList(req.Score.Missing)
	}

	tone := sanitizeSingleLine(s.overrides.Tone)
	if tone == noneValue {
		tone = defaultTone
	}

	replacer := strings.NewReplacer(
		"{{TONE}}", tone,
		"{{TARGET_ROLE}}", sanitizeSingleLine(s.overrides.TargetRole),
		"{{FOCUS}}", sanitizeSingleLine(s.overrides.Focus),
		"{{USER_INSTRUCTIONS}}", userInstructionsBlock(s.overrides.UserInstructions),
		"{{ATS_SCORE}}", score,
		"{{MATCHED_KEYWORDS}}", matched,
		"{{MISSING_KEYWORDS}}", missing,
		"{{PROFILE_JSON}}", profileJSON,
		"{{RESUME_TEXT}}", strings.TrimSpace(req.ResumeText),
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(req.JobDescription),
	)
	return replacer.Replace(promptTemplate), nil
}

func keywordList(terms []string) string {
	if len(terms) == 0 {
		return noneValue
	}
	if len(terms) > maxPromptKeywords {
		terms = terms[:maxPromptKeywords]
	}
	return strings.Join(terms, ", ")
}

// sanitizeSingleLine collapses whitespace, neutralises square brackets used as
// section markers and truncates the value. Empty values become "none".
func sanitizeSingleLine(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	v = strings.NewReplacer("[", "(", "]", ")").Replace(v)
	if v == "" {
		return noneValue
	}
	return truncateRunes(v, maxSingleLineRunes)
}

func userInstructionsBlock(v string) string {
	var lines []string
	for _, line := range strings.Split(v, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		line = strings.NewReplacer("[", "(", "]", ")").Replace(line)
		lines = append(lines, "  - "+truncateRunes(line, maxUserInstructionRunes))
		if len(lines) == maxUserInstructionLines {
			break
		}
	}
	if len(lines) == 0 {
		return "  - " + noneValue
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func parseAnalysis(raw string) (*ai.Analysis, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		match := jsonObject.FindString(raw)
		if match == "" {
			return nil, fmt.Errorf("parse gemini response: %w", err)
		}
		if err := json.Unmarshal([]byte(match), &data); err != nil {
			return nil, fmt.Errorf("parse gemini response: %w", err)
		}
	}

	root := data
	if nested, ok := data["resume_analysis"].(map[string]any); ok {
		root = nested
	}
	if len(root) == 0 {
		return nil, ErrEmptyAnalysis
	}

	var analysis ai.Analysis
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &analysis,
	})
	if err != nil {
		return nil, fmt.Errorf("build analysis decoder: %w", err)
	}
	if err := decoder.Decode(root); err != nil {
		return nil, fmt.Errorf("decode gemini analysis: %w", err)
	}

	return &analysis, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
