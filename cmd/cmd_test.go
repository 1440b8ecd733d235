package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-ats/internal/ai"
	"github.com/spigell/resume-ats/internal/ats"
	"github.com/spigell/resume-ats/internal/ranking"
)

func TestReadJobDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "stops at blank line", input: "Go developer\nKubernetes\n\nignored\n", want: "Go developer\nKubernetes"},
		{name: "eof", input: "Go developer\nKubernetes", want: "Go developer\nKubernetes"},
		{name: "whitespace line ends input", input: "Go\n   \nRust\n", want: "Go"},
		{name: "empty", input: "", want: ""},
		{name: "starts blank", input: "\nGo\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readJobDescription(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPrintResult(t *testing.T) {
	result := ats.Result{
		Score:   62.5,
		Matched: []string{"go", "sql"},
		Missing: []string{"kubernetes"},
	}

	var buf bytes.Buffer
	printResult(&buf, result, false)
	require.Equal(t, "ATS Score: 62.50%\nMatched Keywords:\n- go\n- sql\n", buf.String())

	buf.Reset()
	printResult(&buf, result, true)
	require.Equal(t, "ATS Score: 62.50%\nMatched Keywords:\n- go\n- sql\nMissing Keywords:\n- kubernetes\n", buf.String())
}

func TestPrintKeywords(t *testing.T) {
	m, err := ats.NewMultiset(map[string]float64{"go": 2, "sql": 1, "docker": 1.5})
	require.NoError(t, err)

	var buf bytes.Buffer
	printKeywords(&buf, m, 2)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, []string{"go", "2.0"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"docker", "1.5"}, strings.Fields(lines[1]))
}

func TestPrintEntries(t *testing.T) {
	entries := &ranking.Entries{Items: []*ranking.Entry{
		{Path: "a.txt", Result: ats.Result{Score: 80}},
		{Path: "b.pdf", Err: errors.New("broken")},
	}}

	var buf bytes.Buffer
	printEntries(&buf, entries)
	require.Equal(t, " 80.00%  a.txt\n  error  b.pdf: broken\n", buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	a := &ai.Analysis{
		QuickOverview:  ai.QuickOverview{JobTitleMatch: "Strong"},
		ScoreBreakdown: ai.ScoreBreakdown{OverallATSScore: "72"},
		CriticalGaps: map[string]ai.Gap{
			"gap_2": {Description: "No cloud"},
			"gap_1": {Description: "No Kubernetes", Suggestions: "Add a cluster project"},
		},
		KeywordAnalysis:       ai.KeywordAnalysis{Missing: []string{"kubernetes"}},
		CustomizedSuggestions: []string{"Lead with Go"},
	}

	var buf bytes.Buffer
	printAnalysis(&buf, a)
	out := buf.String()

	require.Contains(t, out, "Job title match: Strong\n")
	require.Contains(t, out, "Overall ATS score: 72\n")
	require.Contains(t, out, "1. No Kubernetes\n   Suggestion: Add a cluster project\n2. No cloud\n")
	require.Contains(t, out, "Missing:\n- kubernetes\n")
	require.Contains(t, out, "Suggestions\n===========\n- Lead with Go\n")
	require.NotContains(t, out, "Industry fit")
}

func TestDecodeConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	require.NoError(t, err)
	require.Equal(t, "/usr/share/wordnet/dict", config.Lexicon.WordNetDir)
	require.Equal(t, lemmatizerMorphy, config.Lexicon.Lemmatizer)
	require.Equal(t, 4, config.Rank.Workers)
	require.Equal(t, "gemini", config.AI.Provider)
	require.Equal(t, "gemini-2.0-flash", config.AI.Gemini.Model)
	require.Equal(t, 3, config.AI.Gemini.MaxRetries)
	require.NotNil(t, config.AI.Prompt)
	require.Empty(t, config.Cache.Path)
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume-ats.yaml")
	content := `
lexicon:
  lemmatizer: snowball
rank:
  workers: 8
  min-score: 40
ai:
  prompt:
    tone: Friendly
  gemini:
    api-key-file: ~/.gemini-key
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	v := viper.New()
	setDefaults(v)
	require.NoError(t, readConfig(v, file))

	config, err := decodeConfig(v)
	require.NoError(t, err)
	require.Equal(t, lemmatizerSnowball, config.Lexicon.Lemmatizer)
	require.Equal(t, 8, config.Rank.Workers)
	require.Equal(t, 40.0, config.Rank.MinScore)
	require.Equal(t, "Friendly", config.AI.Prompt.Tone)
	require.Equal(t, "~/.gemini-key", config.AI.Gemini.APIKeyFile)
	require.Equal(t, "gemini-2.0-flash", config.AI.Gemini.Model)
}

func TestReadConfigMissing(t *testing.T) {
	v := viper.New()
	require.Error(t, readConfig(v, filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestDecodeConfigUnknownLemmatizer(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("lexicon.lemmatizer", "porter")

	_, err := decodeConfig(v)
	require.ErrorContains(t, err, "unknown lemmatizer")
}

// withoutWordNet keeps command tests independent of a WordNet installed on
// the host.
func withoutWordNet(t *testing.T) {
	t.Helper()
	previous := viper.GetString("lexicon.wordnet-dir")
	viper.Set("lexicon.wordnet-dir", "")
	t.Cleanup(func() { viper.Set("lexicon.wordnet-dir", previous) })
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestScoreCommand(t *testing.T) {
	withoutWordNet(t)
	resumePath := writeFile(t, "resume.txt", "python developer")
	jobPath := writeFile(t, "job.txt", "python")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"score", "--resume", resumePath, "--job-file", jobPath})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "ATS Score: 100.00%\nMatched Keywords:\n- python\n", out.String())
}

func TestScoreCommandUnsupportedResume(t *testing.T) {
	withoutWordNet(t)
	resumePath := writeFile(t, "resume.rtf", "python developer")
	jobPath := writeFile(t, "job.txt", "python")

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"score", "--resume", resumePath, "--job-file", jobPath})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "resume.rtf")
}

func TestScoreCommandEmptyJob(t *testing.T) {
	withoutWordNet(t)
	resumePath := writeFile(t, "resume.txt", "python developer")

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader("   \n"))
	rootCmd.SetArgs([]string{"score", "--resume", resumePath, "--job-file", ""})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.ErrorIs(t, err, ats.ErrNoJobKeywords)
	require.Equal(t, 1, strings.Count(err.Error(), ats.ErrNoJobKeywords.Error()), err.Error())
}

func TestAnalyzeDeclined(t *testing.T) {
	withoutWordNet(t)
	resumePath := writeFile(t, "resume.txt", "python developer")
	jobPath := writeFile(t, "job.txt", "python")

	original := confirm
	confirm = func() (bool, error) { return false, nil }

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", "--resume", resumePath, "--job-file", jobPath})
	t.Cleanup(func() {
		confirm = original
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.ErrorIs(t, err, errDeclined)
	require.Contains(t, out.String(), "ATS Score: 100.00%")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	require.True(t, strings.HasPrefix(out.String(), "resume-ats version: "), out.String())
}
