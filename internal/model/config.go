package model

import "time"

// Config holds the complete ideaboard configuration
type Config struct {
	Source     SourceConfig     `yaml:"source" mapstructure:"source"`
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
	Ordering   []CompoundRank   `yaml:"ordering" mapstructure:"ordering"`
	GitHub     GitHubConfig     `yaml:"github" mapstructure:"github"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Verbose    bool             `yaml:"verbose" mapstructure:"verbose"`
}

// SourceConfig locates the idea documents
type SourceConfig struct {
	Root    string `yaml:"root" mapstructure:"root"`       // Repository root holding the documents
	Pattern string `yaml:"pattern" mapstructure:"pattern"` // Glob relative to Root
	Prefix  string `yaml:"prefix" mapstructure:"prefix"`   // Stripped from the file stem to form the ID
}

// RepositoryConfig describes the ideas repository and the organization around it
type RepositoryConfig struct {
	Owner       string        `yaml:"owner" mapstructure:"owner"`
	Name        string        `yaml:"name" mapstructure:"name"`
	Branch      string        `yaml:"branch" mapstructure:"branch"`
	Org         string        `yaml:"org" mapstructure:"org"`                   // Canonical organization (discussions live here)
	OrgAliases  []string      `yaml:"org_aliases" mapstructure:"org_aliases"`   // Spellings normalized to Org
	DefaultRepo string        `yaml:"default_repo" mapstructure:"default_repo"` // Used when an idea has no mapping
	RepoMap     []RepoMapping `yaml:"repo_map" mapstructure:"repo_map"`
}

// RepoMapping maps an idea ID to its associated repository.
// Stored as a list because viper splits map keys on dots ("E.1").
type RepoMapping struct {
	ID   string `yaml:"id" mapstructure:"id"`
	Repo string `yaml:"repo" mapstructure:"repo"`
}

// CompoundRank places a compound ID right after its base letter
type CompoundRank struct {
	ID   string `yaml:"id" mapstructure:"id"`
	Base string `yaml:"base" mapstructure:"base"`
	Rank int    `yaml:"rank" mapstructure:"rank"`
}

// GitHubConfig configures the GitHub REST and GraphQL clients
type GitHubConfig struct {
	Token             string  `yaml:"-" mapstructure:"token"` // Never written to disk; read from GITHUB_TOKEN
	APIURL            string  `yaml:"api_url" mapstructure:"api_url"`
	GraphQLURL        string  `yaml:"graphql_url" mapstructure:"graphql_url"`
	CommentLimit      int     `yaml:"comment_limit" mapstructure:"comment_limit"`
	PullRequestLimit  int     `yaml:"pull_request_limit" mapstructure:"pull_request_limit"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// HTTPConfig holds outbound HTTP settings
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls response caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir,omitempty" mapstructure:"dir"` // Empty keeps the cache in memory only
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LLMConfig configures the optional one-liner backfill
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls the generated site
type OutputConfig struct {
	Dir             string `yaml:"dir" mapstructure:"dir"`
	Page            string `yaml:"page" mapstructure:"page"`
	SiteConfig      string `yaml:"site_config" mapstructure:"site_config"`
	Title           string `yaml:"title" mapstructure:"title"`
	MaxContributors int    `yaml:"max_contributors" mapstructure:"max_contributors"`
	OneLinerLimit   int    `yaml:"one_liner_limit" mapstructure:"one_liner_limit"`
	TopConnected    int    `yaml:"top_connected" mapstructure:"top_connected"`
}

// DefaultConfig returns the configuration for the OWASP BLT ideas repository
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Root:    ".",
			Pattern: "Idea-*.md",
			Prefix:  "Idea-",
		},
		Repository: RepositoryConfig{
			Owner:       "OWASP-BLT",
			Name:        "BLT-Ideas",
			Branch:      "main",
			Org:         "OWASP-BLT",
			OrgAliases:  []string{"OWASP"},
			DefaultRepo: "OWASP-BLT/BLT",
			RepoMap:     DefaultRepoMap(),
		},
		Ordering: DefaultOrdering(),
		GitHub: GitHubConfig{
			APIURL:            "https://api.github.com",
			GraphQLURL:        "https://api.github.com/graphql",
			CommentLimit:      100,
			PullRequestLimit:  100,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "BLT-Ideas-Page-Generator",
			MaxBodyBytes: 5_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 120,
		},
		Output: OutputConfig{
			Dir:             "docs",
			Page:            "index.html",
			SiteConfig:      "_config.yml",
			Title:           "BLT Ideas — Analysis Dashboard",
			MaxContributors: 10,
			OneLinerLimit:   120,
			TopConnected:    5,
		},
	}
}

// DefaultRepoMap returns the known idea -> repository assignments
func DefaultRepoMap() []RepoMapping {
	const (
		blt         = "OWASP-BLT/BLT"
		netGuardian = "OWASP-BLT/BLT-NetGuardian"
	)
	return []RepoMapping{
		{ID: "A", Repo: blt},
		{ID: "B", Repo: blt},
		{ID: "C", Repo: blt},
		{ID: "D", Repo: blt},
		{ID: "E", Repo: blt},
		{ID: "E.1", Repo: blt},
		{ID: "E.2", Repo: blt},
		{ID: "F", Repo: blt},
		{ID: "G", Repo: netGuardian},
		{ID: "H", Repo: blt},
		{ID: "I", Repo: blt},
		{ID: "J", Repo: blt},
		{ID: "K", Repo: blt},
		{ID: "L", Repo: blt},
		{ID: "L2", Repo: blt},
		{ID: "M", Repo: blt},
		{ID: "N", Repo: blt},
		{ID: "O", Repo: "OWASP-BLT/BLT-Extension"},
		{ID: "P", Repo: blt},
		{ID: "Q", Repo: blt},
		{ID: "R", Repo: "OWASP-BLT/BLT-Flutter"},
		{ID: "RS", Repo: blt},
		{ID: "S", Repo: "OWASP-BLT/BLT-CVE"},
		{ID: "T", Repo: netGuardian},
		{ID: "U", Repo: blt},
		{ID: "V", Repo: "OWASP-BLT/BLT-API"},
		{ID: "W", Repo: blt},
		{ID: "X", Repo: blt},
		{ID: "Y", Repo: blt},
		{ID: "Z", Repo: blt},
	}
}

// DefaultOrdering returns the compound IDs that sort next to their base letter
func DefaultOrdering() []CompoundRank {
	return []CompoundRank{
		{ID: "E.1", Base: "E", Rank: 1},
		{ID: "E.2", Base: "E", Rank: 2},
		{ID: "L2", Base: "L", Rank: 2},
		{ID: "RS", Base: "RS", Rank: 0},
	}
}

// RepoLookup converts the repo mapping list into a lookup table
func (c RepositoryConfig) RepoLookup() map[string]string {
	lookup := make(map[string]string, len(c.RepoMap))
	for _, m := range c.RepoMap {
		lookup[m.ID] = m.Repo
	}
	return lookup
}

// URL returns the web URL of the ideas repository
func (c RepositoryConfig) URL() string {
	return "https://github.com/" + c.Owner + "/" + c.Name
}
