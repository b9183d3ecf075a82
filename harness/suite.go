// File: harness/suite.go

package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/notargets/kernelcheck/kernel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Suite is a YAML-described set of cases run against one provider
type Suite struct {
	Name     string        `yaml:"name"`
	Backend  string        `yaml:"backend,omitempty"`
	Library  string        `yaml:"library,omitempty"`
	Symbol   string        `yaml:"symbol,omitempty"`
	OCCAMode string        `yaml:"occa_mode,omitempty"`
	OKL      string        `yaml:"okl,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`  // applied to cases without their own
	Parallel int           `yaml:"parallel,omitempty"` // max cases in flight; <= 1 runs sequentially
	Cases    []Case        `yaml:"cases"`
}

// SuiteResult collects the results of every case in a suite run
type SuiteResult struct {
	RunID   string    `json:"run_id"`
	Suite   string    `json:"suite"`
	Results []*Result `json:"results"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
	Total   int       `json:"total"`
}

// OK reports whether every case passed
func (sr *SuiteResult) OK() bool {
	return sr.Failed == 0
}

// LoadSuite reads a suite file; relative library and OKL paths are
// resolved against the directory holding the file
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	return ParseSuite(data, filepath.Dir(path))
}

// ParseSuite decodes suite YAML, rejecting unknown fields
func ParseSuite(data []byte, baseDir string) (*Suite, error) {
	var s Suite
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}

	if s.Library != "" && !filepath.IsAbs(s.Library) {
		s.Library = filepath.Join(baseDir, s.Library)
	}
	if s.OKL != "" && !filepath.IsAbs(s.OKL) {
		s.OKL = filepath.Join(baseDir, s.OKL)
	}
	if s.Symbol == "" {
		s.Symbol = kernel.DefaultSymbol
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("suite %q has no cases", s.Name)
	}

	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("case-%d", i+1)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("suite %q: duplicate case name %q", s.Name, c.Name)
		}
		seen[c.Name] = true
		if c.Timeout == 0 {
			c.Timeout = s.Timeout
		}
		*c = c.WithDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// RunSuite checks every case against p. Case failures are recorded in the
// result rather than returned; the error is non-nil only when ctx ends the run.
func (h *Harness) RunSuite(ctx context.Context, p kernel.Provider, s *Suite) (*SuiteResult, error) {
	sr := &SuiteResult{
		RunID:   uuid.NewString(),
		Suite:   s.Name,
		Results: make([]*Result, len(s.Cases)),
		Total:   len(s.Cases),
	}
	h.logger.Info("running suite",
		zap.String("run_id", sr.RunID), zap.String("suite", s.Name),
		zap.String("provider", p.Name()), zap.Int("cases", len(s.Cases)))

	var g errgroup.Group
	limit := s.Parallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, c := range s.Cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := h.Check(ctx, p, c)
			if res == nil {
				res = &Result{Case: c.Name, Provider: p.Name(), Size: c.Size}
				if err != nil {
					res.Error = err.Error()
				}
			}
			sr.Results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sr, err
	}

	for _, res := range sr.Results {
		if res.Passed {
			sr.Passed++
		} else {
			sr.Failed++
		}
	}
	h.logger.Info("suite finished",
		zap.String("run_id", sr.RunID), zap.Int("passed", sr.Passed), zap.Int("failed", sr.Failed))
	return sr, nil
}
