// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-06

package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/viper"

	"github.com/similigh/simili-sync/internal/core/config"
	"github.com/similigh/simili-sync/internal/core/pipeline"
	similiGithub "github.com/similigh/simili-sync/internal/integrations/github"
	"github.com/similigh/simili-sync/internal/projects"
)

// newGitHubClient builds the REST/GraphQL client from the token input and
// optional Enterprise endpoints.
func newGitHubClient(ctx context.Context) (*similiGithub.Client, error) {
	token := viper.GetString("token")
	if token == "" {
		return nil, fmt.Errorf("a GitHub token is required (set INPUT_TOKEN or GITHUB_TOKEN)")
	}
	client := similiGithub.NewClient(ctx, token)
	return client.WithEndpoints(viper.GetString("api-url"), viper.GetString("graphql-url"))
}

// loadConfig finds and loads the config, fetching an extended parent config
// through gh when one is named.
func loadConfig(ctx context.Context, gh *similiGithub.Client) (*config.Config, string, error) {
	path := config.FindConfigPath(configPathInput())
	if path == "" {
		want := configPathInput()
		if want == "" {
			want = config.DefaultConfigPath
		}
		return nil, "", fmt.Errorf("%w: config file not found: %s", config.ErrInvalid, want)
	}

	fetcher := func(ref string) ([]byte, error) {
		// Parse ref: org/repo@branch:path
		org, repo, branch, file, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		if gh == nil {
			return nil, fmt.Errorf("a GitHub token is required to fetch remote config %s", ref)
		}
		return gh.GetFileContent(ctx, org, repo, file, branch)
	}

	cfg, err := config.LoadWithInheritance(path, fetcher)
	if err != nil {
		return nil, path, err
	}
	if verbose {
		log.Printf("[config] Loaded config from %s", path)
	}
	return cfg, path, nil
}

// newDependencies wires the GitHub client and the project syncer for one run.
// The project directory caches the board for the lifetime of the run only.
func newDependencies(gh *similiGithub.Client, cfg *config.Config, dryRun bool) *pipeline.Dependencies {
	dir := projects.NewDirectory(gh.GraphQL(), projects.Selector{
		Owner:       cfg.Project.Owner,
		Name:        cfg.Project.Name,
		Number:      cfg.Project.Number,
		StatusField: cfg.Project.StatusField,
	})

	return &pipeline.Dependencies{
		GitHub:   gh,
		Projects: projects.NewSyncer(gh.GraphQL(), dir, cfg.StatusOrder(), dryRun),
		DryRun:   dryRun,
	}
}
