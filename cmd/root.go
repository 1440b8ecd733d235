package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-ats"
)

type Config struct {
	Lexicon *LexiconConfig `mapstructure:"lexicon"`
	Cache   *CacheConfig   `mapstructure:"cache"`
	Rank    *RankConfig    `mapstructure:"rank"`
	AI      *AIConfig      `mapstructure:"ai"`
}

type LexiconConfig struct {
	WordNetDir string `mapstructure:"wordnet-dir"`
	Lemmatizer string `mapstructure:"lemmatizer"`
}

type CacheConfig struct {
	Path string `mapstructure:"path"`
}

type RankConfig struct {
	Workers     int     `mapstructure:"workers"`
	MinScore    float64 `mapstructure:"min-score"`
	Top         int     `mapstructure:"top"`
	ExcludeFile string  `mapstructure:"exclude-file"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Prompt   *PromptConfig `mapstructure:"prompt"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type PromptConfig struct {
	Tone         string `mapstructure:"tone"`
	TargetRole   string `mapstructure:"target-role"`
	Focus        string `mapstructure:"focus"`
	Instructions string `mapstructure:"instructions"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	APIKey       string `mapstructure:"api-key"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

const (
	lemmatizerMorphy   = "morphy"
	lemmatizerSnowball = "snowball"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "resume-ats scores resumes against job descriptions the way an applicant tracking system does",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	setDefaults(viper.GetViper())

	bindings := map[string]string{
		"lexicon.wordnet-dir":    "WORDNET_DIR",
		"cache.path":             "RESUME_ATS_CACHE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ats.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("lexicon.wordnet-dir", "/usr/share/wordnet/dict")
	v.SetDefault("lexicon.lemmatizer", lemmatizerMorphy)
	v.SetDefault("cache.path", "")
	v.SetDefault("rank.workers", 4)
	v.SetDefault("rank.min-score", 0)
	v.SetDefault("rank.top", 0)
	v.SetDefault("rank.exclude-file", "")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig loads an explicit config file, or resume-ats.yaml from the
// current directory when it exists. Running without any config is fine.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if file == "" && errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("reading config: %w", err)
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config == nil {
		config = &Config{}
	}
	if config.Lexicon == nil {
		config.Lexicon = &LexiconConfig{}
	}
	if config.Cache == nil {
		config.Cache = &CacheConfig{}
	}
	if config.Rank == nil {
		config.Rank = &RankConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Prompt == nil {
		config.AI.Prompt = &PromptConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	switch config.Lexicon.Lemmatizer {
	case "", lemmatizerMorphy, lemmatizerSnowball:
	default:
		return nil, fmt.Errorf("unknown lemmatizer %q (want %s or %s)", config.Lexicon.Lemmatizer, lemmatizerMorphy, lemmatizerSnowball)
	}

	return config, nil
}
