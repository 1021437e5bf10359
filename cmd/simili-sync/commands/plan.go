// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-06

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/similigh/simili-sync/internal/core/config"
	"github.com/similigh/simili-sync/internal/core/rules"
	similiGithub "github.com/similigh/simili-sync/internal/integrations/github"
)

var (
	planEvent  string
	planAction string
)

// planCmd prints the action plan for an event without touching GitHub.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the action plan the rules produce for an event",
	Long: `Show the merged action plan for an event and action, e.g.

  simili-sync plan --action ready_for_review

No remote calls are made unless the config extends a remote parent.`,
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

		cfg, _, err := loadConfig(ctx, gh)
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), cfg, planEvent, planAction)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planEvent, "event", "pull_request", "Event name")
	planCmd.Flags().StringVar(&planAction, "action", "", "Event action (e.g. opened, ready_for_review)")
	_ = planCmd.MarkFlagRequired("action")
}

func printPlan(w io.Writer, cfg *config.Config, event, action string) error {
	plan, err := rules.Build(cfg.Rules, cfg.StatusOrder(), event, action)
	if err != nil {
		return err
	}
	if plan == nil {
		fmt.Fprintf(w, "No matching rules for %s/%s\n", event, action)
		return nil
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}
