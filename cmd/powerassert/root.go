package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/LerianStudio/lib-powerassert/powerassert"
	"github.com/LerianStudio/lib-powerassert/powerassert/config"
	"github.com/LerianStudio/lib-powerassert/powerassert/gosyntax"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/LerianStudio/lib-powerassert/powerassert/transform"
	"github.com/LerianStudio/lib-powerassert/powerassert/zap"
)

// errPredicateFalse makes explain exit non-zero under --fail.
var errPredicateFalse = errors.New("expression is false")

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "powerassert",
		Short:        "Explain Go boolean expressions",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "powerassert.yaml", "config file; missing means defaults")

	cmd.AddCommand(newExplainCmd(opts), newHintsCmd(opts))

	return cmd
}

// session is the config and logger shared by one command run.
type session struct {
	cfg    config.Config
	logger log.Logger
}

func (opts *rootOptions) open() (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger, err := zap.New(cfg.ZapConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &session{cfg: cfg, logger: logger}, nil
}

func (s *session) production() bool {
	return s.cfg.Log.Environment == string(zap.EnvironmentProduction)
}

func (s *session) close(ctx context.Context) {
	// Syncing stderr fails on some terminals; nothing to report.
	_ = s.logger.Sync(ctx)
}

type explainOptions struct {
	vars []string
	fail bool
}

func newExplainCmd(root *rootOptions) *cobra.Command {
	opts := &explainOptions{}

	cmd := &cobra.Command{
		Use:   "explain [flags] EXPRESSION",
		Short: "Print the value of every subexpression under it",
		Long: `Parses EXPRESSION as a Go boolean expression, evaluates it and prints the
diagram of every subexpression's value. Variables are given as name=value
pairs; values are YAML, so 3 is an int, 1.5 a float, [1, 2] a list and
"3" a string. Helpers from bytes, math, reflect, strings and time are in
scope.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.vars, "var", nil, "variable as name=value, repeatable")
	cmd.Flags().BoolVar(&opts.fail, "fail", false, "exit non-zero when the expression is false")

	return cmd
}

func runExplain(cmd *cobra.Command, root *rootOptions, opts *explainOptions, src string) error {
	s, err := root.open()
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())

	scope, err := scopeFromVars(opts.vars)
	if err != nil {
		return err
	}

	pred, err := gosyntax.Parse(src, scope)
	if err != nil {
		return err
	}

	d, err := powerassert.Diagnose(pred, powerassert.WithConfig(s.cfg), powerassert.WithLogger(s.logger))
	if err != nil {
		log.SafeError(s.logger, cmd.Context(), "failed to explain expression", err, s.production())
		return err
	}

	s.logger.Log(cmd.Context(), log.LevelDebug, "expression explained",
		log.Expression(d.Source),
		log.Bool("passed", d.Passed),
		log.Hint(d.Hint),
	)

	fmt.Fprintln(cmd.OutOrStdout(), d.Text)

	if d.Err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "evaluation "+transform.FailureText(d.Err))
	}

	if opts.fail && !d.Passed {
		return errPredicateFalse
	}

	return nil
}

// scopeFromVars registers each name=value pair over gosyntax.Std.
func scopeFromVars(vars []string) (*gosyntax.Scope, error) {
	scope := gosyntax.Std()

	for _, kv := range vars {
		name, raw, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: want name=value", kv)
		}

		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid --var %s: %w", name, err)
		}

		if v == nil {
			return nil, fmt.Errorf("invalid --var %s: no value", name)
		}

		scope.Value(name, v)
	}

	return scope, nil
}

func newHintsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hints",
		Short: "List the enabled hint detectors in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.open()
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			engine := s.cfg.HintEngine(transform.CompiledEvaluator{}, s.cfg.Formatter())
			for _, name := range engine.Detectors() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}
}
