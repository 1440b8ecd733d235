package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Filter narrows ranked entries in place and reports the paths it dropped.
type Filter interface {
	Name() string
	// Configure reads the filter settings and rejects invalid ones.
	Configure(cfg *Config) error
	Apply(ctx context.Context, log *zap.Logger, e *Entries) ([]string, error)
	// Details describes the configured filter for status output.
	Details() map[string]string
}

// Config holds the settings of the standard filters.
type Config struct {
	MinScore    float64
	Top         int
	ExcludeFile string
}

// Step is the entry count before and after one filter.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// Chain applies filters in order.
type Chain struct {
	filters  []Filter
	disabled map[string]string
	logger   *zap.Logger
}

func NewChain(logger *zap.Logger, filters ...Filter) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{filters: filters, disabled: map[string]string{}, logger: logger}
}

// DefaultChain drops excluded files first, then low scores, then everything
// past the top limit.
func DefaultChain(logger *zap.Logger) *Chain {
	return NewChain(logger, NewExcludeFile(), NewMinScore(), NewTop())
}

// ChainFor returns the default chain with every filter that cfg leaves unset
// disabled.
func ChainFor(logger *zap.Logger, cfg *Config) *Chain {
	c := DefaultChain(logger)
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.ExcludeFile == "" {
		c.Disable("exclude_file", "no exclude file configured")
	}
	if cfg.MinScore == 0 {
		c.Disable("min_score", "minimum score is zero")
	}
	if cfg.Top == 0 {
		c.Disable("top", "no limit configured")
	}
	return c
}

// Disable keeps the named filter in the chain but skips it.
func (c *Chain) Disable(name, reason string) {
	c.disabled[name] = reason
}

func (c *Chain) enabled(f Filter) bool {
	_, off := c.disabled[f.Name()]
	return !off
}

// Run configures every enabled filter before applying any of them, so a bad
// setting fails the run without touching e.
func (c *Chain) Run(ctx context.Context, cfg *Config, e *Entries) (*Entries, []Step, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	for _, f := range c.filters {
		if !c.enabled(f) {
			continue
		}
		if err := f.Configure(cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
	}

	steps := make([]Step, 0, len(c.filters))
	for _, f := range c.filters {
		if !c.enabled(f) {
			c.logger.Debug("filter disabled", zap.String("name", f.Name()), zap.String("reason", c.disabled[f.Name()]))
			continue
		}

		step := Step{Name: f.Name(), Initial: e.Len()}
		dropped, err := f.Apply(ctx, c.logger, e)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		step.Dropped = len(dropped)
		step.Left = e.Len()
		steps = append(steps, step)

		c.logger.Info("filter step",
			zap.String("name", step.Name),
			zap.Int("initial", step.Initial),
			zap.Int("dropped", step.Dropped),
			zap.Int("left", step.Left),
		)
	}

	return e, steps, nil
}

// Describe reports every filter of the chain, disabled ones included.
func (c *Chain) Describe() []Status {
	statuses := make([]Status, 0, len(c.filters))
	for _, f := range c.filters {
		reason, off := c.disabled[f.Name()]
		statuses = append(statuses, Status{
			Name:    f.Name(),
			Enabled: !off,
			Reason:  reason,
			Details: f.Details(),
		})
	}
	return statuses
}
