// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken    string
	GitHubUsername string
	DBPath         string
	BranchPrefix   string
	Remote         string
}

// Load reads configuration from environment variables and returns a validated
// Config. REVIEWDESK_GITHUB_TOKEN and REVIEWDESK_GITHUB_USERNAME are required;
// every remote operation authenticates with them. Optional variables with
// defaults: REVIEWDESK_DB_PATH (reviewdesk.db), REVIEWDESK_BRANCH_PREFIX
// (reviewdesk/), REVIEWDESK_REMOTE (origin).
func Load() (*Config, error) {
	token := os.Getenv("REVIEWDESK_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("REVIEWDESK_GITHUB_TOKEN is required")
	}
	username := os.Getenv("REVIEWDESK_GITHUB_USERNAME")
	if username == "" {
		return nil, fmt.Errorf("REVIEWDESK_GITHUB_USERNAME is required")
	}

	dbPath := "reviewdesk.db"
	if v, ok := os.LookupEnv("REVIEWDESK_DB_PATH"); ok {
		dbPath = v
	}

	branchPrefix := "reviewdesk/"
	if v, ok := os.LookupEnv("REVIEWDESK_BRANCH_PREFIX"); ok && v != "" {
		branchPrefix = v
		if !strings.HasSuffix(branchPrefix, "/") {
			branchPrefix += "/"
		}
	}

	remote := "origin"
	if v, ok := os.LookupEnv("REVIEWDESK_REMOTE"); ok && v != "" {
		remote = v
	}

	return &Config{
		GitHubToken:    token,
		GitHubUsername: username,
		DBPath:         dbPath,
		BranchPrefix:   branchPrefix,
		Remote:         remote,
	}, nil
}
