package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/logger"
)

// readJobDescription reads lines until the first blank line or EOF.
func readJobDescription(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}

	return strings.Join(lines, "\n"), nil
}

// jobDescription returns the contents of --job-file when set, otherwise
// prompts for the description on stdin.
func jobDescription(ctx context.Context, cmd *cobra.Command, e *engine) (string, error) {
	jobFile, _ := cmd.Flags().GetString("job-file")
	if jobFile != "" {
		return e.extract(ctx, jobFile)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Paste the job description, then an empty line:")
	return readJobDescription(cmd.InOrStdin())
}

// setup builds the logger, the config and the engine shared by the commands.
func setup(ctx context.Context) (*zap.Logger, *Config, *engine, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log.Debug("starting", zap.String("app", app), zap.String("version", resolveVersion()))

	e, err := newEngine(ctx, config, log)
	if err != nil {
		return nil, nil, nil, err
	}

	return log, config, e, nil
}
