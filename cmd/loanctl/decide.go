package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"loanassist/internal/application"
	"loanassist/internal/bootstrap"
	"loanassist/internal/decision"
	"loanassist/internal/decision/handler"
	platformredis "loanassist/internal/platform/redis"
	dErrors "loanassist/pkg/domain-errors"
)

func (c *cli) decideCmd() *cobra.Command {
	var (
		file   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Evaluate a JSON loan application",
		Long: `Evaluate a loan application stored as JSON. The eligibility rules run
first; only applications passing every rule are sent to the scoring model.

Exit status is 2 when the application is invalid and 3 when the model
could not be consulted.`,
		Example: `  loanctl decide --file application.json
  cat application.json | loanctl decide --file - --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return c.decide(cmd, data, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "application JSON file, or - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	cmd.Flags().String("manifest", "", "model manifest (overrides scoring.manifest_path)")
	cmd.Flags().Float64("threshold", decision.DefaultThreshold, "approval threshold within [0,1]")
	_ = cmd.MarkFlagRequired("file")
	_ = c.v.BindPFlag("scoring.manifest_path", cmd.Flags().Lookup("manifest"))
	_ = c.v.BindPFlag("decision.threshold", cmd.Flags().Lookup("threshold"))

	return cmd
}

func (c *cli) decide(cmd *cobra.Command, data []byte, output string) error {
	ctx := cmd.Context()

	if err := application.ValidateDocument(data); err != nil {
		return err
	}
	raw, err := decodeApplication(data)
	if err != nil {
		return err
	}

	manifest, err := bootstrap.LoadManifest(c.cfg)
	if err != nil {
		return err
	}
	deps := &bootstrap.Dependencies{}
	if c.cfg.Redis.URL != "" {
		client, err := platformredis.New(ctx, c.cfg.Redis)
		if err != nil {
			// The cache is an optimization; score without it.
			c.logger.WarnContext(ctx, "score cache unavailable", "error", err)
		} else {
			deps.Redis = client
			defer func() { _ = client.Close() }()
		}
	}

	scorer := bootstrap.NewScorer(c.cfg, manifest, deps, c.logger, nil)
	engine, err := bootstrap.NewEngine(c.cfg, scorer.Scorer)
	if err != nil {
		return err
	}
	service := decision.NewService(engine,
		decision.WithLogger(c.logger),
		decision.WithModelVersion(scorer.Version),
	)

	result, err := service.Evaluate(ctx, raw)
	if err != nil {
		return err
	}
	resp := handler.FromResult(result, engine.Threshold())

	switch output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "text":
		return printDecision(cmd.OutOrStdout(), resp)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(io.LimitReader(stdin, handler.MaxBodyBytes+1))
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read application: %w", err)
	}
	return data, nil
}

func decodeApplication(data []byte) (application.RawApplication, error) {
	if len(data) > handler.MaxBodyBytes {
		return application.RawApplication{}, dErrors.New(dErrors.CodeBadRequest, "application document too large")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var raw application.RawApplication
	if err := dec.Decode(&raw); err != nil {
		return application.RawApplication{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid application document")
	}
	return raw, nil
}

func printDecision(w io.Writer, resp *handler.DecisionResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Decision:\t%s (%s)\n", resp.Class, resp.Outcome)
	fmt.Fprintf(tw, "Message:\t%s\n", resp.Message)
	if resp.RuleID != "" {
		fmt.Fprintf(tw, "Rule:\t%s (%s)\n", resp.RuleID, resp.Reason)
	}
	if resp.Score != nil && resp.Threshold != nil {
		fmt.Fprintf(tw, "Score:\t%.4f (threshold %.2f)\n", *resp.Score, *resp.Threshold)
	}
	if resp.ModelVersion != "" && resp.Score != nil {
		fmt.Fprintf(tw, "Model:\t%s\n", resp.ModelVersion)
	}
	fmt.Fprintf(tw, "Decision ID:\t%s\n", resp.DecisionID)
	return tw.Flush()
}
