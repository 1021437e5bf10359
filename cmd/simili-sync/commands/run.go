// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-06

package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/similigh/simili-sync/internal/core/pipeline"
)

// runCmd processes one pull request event.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process one pull request event through the pipeline",
	Long: `Process the pull request event GitHub Actions stored at GITHUB_EVENT_PATH.
Outputs are written to GITHUB_OUTPUT (or stdout). Any failure is reported as an
::error:: workflow command and a non-zero exit code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runEvent(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "::error::%s\n", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("event-name", "", "Webhook event name (default $GITHUB_EVENT_NAME)")
	runCmd.Flags().String("event-path", "", "Path to the webhook payload (default $GITHUB_EVENT_PATH)")
	runCmd.Flags().Bool("dry-run", false, "Run in dry-run mode (no side effects)")
	runCmd.Flags().String("workflow", "", "Workflow preset to run (default pr-sync)")

	_ = viper.BindPFlag("event-name", runCmd.Flags().Lookup("event-name"))
	_ = viper.BindPFlag("event-path", runCmd.Flags().Lookup("event-path"))
	_ = viper.BindPFlag("dry-run", runCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("workflow", runCmd.Flags().Lookup("workflow"))
}

func runEvent(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dryRun := viper.GetBool("dry-run")

	gh, err := newGitHubClient(ctx)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(ctx, gh)
	if err != nil {
		return err
	}

	event, pr, err := loadEvent(viper.GetString("event-name"), viper.GetString("event-path"))
	if err != nil {
		return err
	}

	workflow := viper.GetString("workflow")
	if workflow == "" {
		workflow = cfg.Workflow
	}
	stepNames := pipeline.ResolveSteps(cfg.Steps, workflow)

	deps := newDependencies(gh, cfg, dryRun)
	p, err := buildPipeline(deps, stepNames)
	if err != nil {
		return err
	}

	pCtx := pipeline.NewContext(ctx, event, pr, cfg)
	if dryRun {
		log.Printf("[simili-sync] Run %s in dry-run mode", pCtx.RunID)
	}

	if isCI() {
		// Run pipeline directly without TUI in CI environments
		log.Printf("[simili-sync] Running %s in CI mode (no TUI)", pCtx.RunID)
		err = p.Run(pCtx)
	} else {
		err = runPipelineWithTUI(p, pCtx, stepNames)
	}
	if err == nil && pCtx.Result.Skipped {
		log.Printf("[simili-sync] Skipped: %s", pCtx.Result.SkipReason)
	}
	return finishRun(viper.GetString("output-path"), pCtx.Result, err)
}

// finishRun publishes the outputs collected so far, even when the pipeline
// failed part way, and returns the pipeline error first.
func finishRun(outputPath string, result *pipeline.Result, runErr error) error {
	if err := publishOutputs(outputPath, result); err != nil {
		if runErr != nil {
			log.Printf("[simili-sync] Failed to publish outputs: %v", err)
			return runErr
		}
		return err
	}
	return runErr
}
