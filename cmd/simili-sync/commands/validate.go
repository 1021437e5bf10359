// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-06

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/similigh/simili-sync/internal/core/config"
	"github.com/similigh/simili-sync/internal/core/pipeline"
	similiGithub "github.com/similigh/simili-sync/internal/integrations/github"
)

// validateCmd loads and validates the config.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the automation config",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var gh *similiGithub.Client
		if viper.GetString("token") != "" {
			client, err := newGitHubClient(ctx)
			if err != nil {
				return err
			}
			gh = client
		}

		cfg, path, err := loadConfig(ctx, gh)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), cfg, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func printSummary(w io.Writer, cfg *config.Config, path string) {
	project := cfg.Project.Name
	if cfg.Project.Number > 0 {
		project = fmt.Sprintf("#%d", cfg.Project.Number)
	}

	workflow := cfg.Workflow
	if workflow == "" {
		workflow = pipeline.DefaultWorkflow
	}

	fmt.Fprintf(w, "Config OK: %s\n", path)
	fmt.Fprintf(w, "  Issue repo:   %s/%s\n", cfg.IssueRepo.Owner, cfg.IssueRepo.Name)
	fmt.Fprintf(w, "  Project:      %s/%s (field %q)\n", cfg.Project.Owner, project, cfg.Project.StatusField)
	fmt.Fprintf(w, "  Status order: %s\n", strings.Join(cfg.Project.StatusOrder, " < "))
	fmt.Fprintf(w, "  Rules:        %d\n", len(cfg.Rules))
	fmt.Fprintf(w, "  Steps:        %s\n", strings.Join(pipeline.ResolveSteps(cfg.Steps, workflow), ", "))
}
