// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

// Package commands implements the simili-sync CLI.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simili-sync",
	Short: "Keep pull requests, linked issues and a project board in sync",
	Long: `simili-sync reacts to pull request events. Driven by a declarative rule table,
it labels pull requests, assigns the linked issue, moves the issue forward on a
GitHub project board and leaves an audit trail on the issue.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .github/automation.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	bindInputs()
}

// bindInputs maps GitHub Action inputs (INPUT_<NAME>) and the standard
// Actions environment onto viper keys. Flags bound later take precedence.
func bindInputs() {
	_ = viper.BindEnv("token", "INPUT_TOKEN", "GITHUB_TOKEN")
	_ = viper.BindEnv("config-path", "INPUT_CONFIG-PATH", "INPUT_CONFIG_PATH")
	_ = viper.BindEnv("dry-run", "INPUT_DRY-RUN", "INPUT_DRY_RUN")
	_ = viper.BindEnv("workflow", "INPUT_WORKFLOW")
	_ = viper.BindEnv("api-url", "INPUT_API-URL", "GITHUB_API_URL")
	_ = viper.BindEnv("graphql-url", "INPUT_GRAPHQL-URL", "GITHUB_GRAPHQL_URL")
	_ = viper.BindEnv("event-name", "GITHUB_EVENT_NAME")
	_ = viper.BindEnv("event-path", "GITHUB_EVENT_PATH")
	_ = viper.BindEnv("output-path", "GITHUB_OUTPUT")
	_ = viper.BindEnv("ci", "CI")
	_ = viper.BindEnv("github-actions", "GITHUB_ACTIONS")

	_ = viper.BindPFlag("config-path", rootCmd.PersistentFlags().Lookup("config"))
}

// configPathInput returns the config path from --config or the action input.
func configPathInput() string {
	return viper.GetString("config-path")
}

// isCI reports whether the run is non-interactive.
func isCI() bool {
	return viper.GetBool("ci") || viper.GetBool("github-actions")
}
