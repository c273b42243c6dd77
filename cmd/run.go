package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenlens/claims-cli/internal/model"
)

var (
	runCompany   string
	runSkipNews  bool
	runSkipJudge bool
)

var runCmd = &cobra.Command{
	Use:   "run [query...]",
	Short: "Run a full analysis for one query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		run, err := env.Store.CreateRun(ctx, query, runCompany)
		if err != nil {
			return err
		}
		zap.L().Info("run started", zap.String("run_id", run.ID))

		result := &model.RunResult{}
		extraction := env.Pipeline.Extract(ctx, query, runCompany)
		result.Extraction = &extraction

		if !runSkipNews && extraction.SelectedCompany != "" {
			report, err := env.Harvester.Run(ctx, extraction.SelectedCompany)
			if err != nil {
				zap.L().Warn("news scan failed, continuing without events", zap.Error(err))
			} else {
				result.News = report
			}
		}

		if !runSkipJudge {
			assessment, err := env.Judge.Assess(ctx, query, result.Extraction, result.News)
			if err != nil {
				_ = env.Store.FailRun(ctx, run.ID, err)
				return err
			}
			result.Assessment = assessment
		}

		if err := env.Store.CompleteRun(ctx, run.ID, result); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runCompany, "company", "", "preferred company name (fuzzy matched against the evidence store)")
	runCmd.Flags().BoolVar(&runSkipNews, "skip-news", false, "skip the press-coverage scan")
	runCmd.Flags().BoolVar(&runSkipJudge, "skip-judge", false, "skip the narrative assessment")
	rootCmd.AddCommand(runCmd)
}
