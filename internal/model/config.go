package model

// Config is the stagehand.yaml configuration file.
type Config struct {
	Project   ProjectConfig   `yaml:"project"`
	Responder ResponderConfig `yaml:"responder"`
	Execution ExecutionConfig `yaml:"execution"`
	Search    SearchConfig    `yaml:"search"`
}

type ProjectConfig struct {
	Name string `yaml:"name"`
	// Root is the workspace root for relative file resolution. Empty
	// means "discover by walking up from the current directory".
	Root string `yaml:"root"`
	// StateDir holds run records and the persisted permission flag.
	// Relative to Root. Defaults to ".stagehand".
	StateDir string `yaml:"state_dir"`
}

type ResponderConfig struct {
	// Provider selects the transport: "openai" or "mock".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"`
	// APIKeyEnv names the environment variable holding the key.
	APIKeyEnv string `yaml:"api_key_env"`
}

type ExecutionConfig struct {
	// MaxRetries bounds re-validation attempts per step.
	MaxRetries int `yaml:"max_retries"`
	// CommandTimeoutSec bounds one shell command. 0 means no timeout.
	CommandTimeoutSec int `yaml:"command_timeout_sec"`
	// AlwaysAllow pre-seeds the permission gate, skipping prompts.
	AlwaysAllow bool `yaml:"always_allow"`
	// DenyPatterns are regexps matched against commands before
	// execution; a match blocks the command.
	DenyPatterns []string `yaml:"deny_patterns,omitempty"`
}

type SearchConfig struct {
	// MaxResults caps SEARCH_FILE matches folded back into context.
	MaxResults int `yaml:"max_results"`
	// MaxFileLines truncates each matched file in rendered context.
	MaxFileLines int `yaml:"max_file_lines"`
}

const (
	DefaultMaxRetries        = 5
	DefaultStateDir          = ".stagehand"
	DefaultCommandTimeoutSec = 120
	DefaultSearchMaxResults  = 20
	DefaultSearchMaxLines    = 200
)

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		Project: ProjectConfig{
			StateDir: DefaultStateDir,
		},
		Responder: ResponderConfig{
			Provider:  "openai",
			Model:     "gpt-4o",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Execution: ExecutionConfig{
			MaxRetries:        DefaultMaxRetries,
			CommandTimeoutSec: DefaultCommandTimeoutSec,
			DenyPatterns:      DefaultDenyPatterns(),
		},
		Search: SearchConfig{
			MaxResults:   DefaultSearchMaxResults,
			MaxFileLines: DefaultSearchMaxLines,
		},
	}
}

// DefaultDenyPatterns blocks obviously destructive commands.
func DefaultDenyPatterns() []string {
	return []string{
		`rm\s+-rf\s+/`,
		`mkfs`,
		`shutdown`,
		`reboot`,
	}
}

// ApplyDefaults fills zero-valued fields in place.
func (c *Config) ApplyDefaults() {
	if c.Project.StateDir == "" {
		c.Project.StateDir = DefaultStateDir
	}
	if c.Responder.Provider == "" {
		c.Responder.Provider = "openai"
	}
	if c.Responder.Model == "" {
		c.Responder.Model = "gpt-4o"
	}
	if c.Responder.APIKeyEnv == "" {
		c.Responder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Execution.MaxRetries <= 0 {
		c.Execution.MaxRetries = DefaultMaxRetries
	}
	if c.Execution.CommandTimeoutSec < 0 {
		c.Execution.CommandTimeoutSec = 0
	}
	if len(c.Execution.DenyPatterns) == 0 {
		c.Execution.DenyPatterns = DefaultDenyPatterns()
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = DefaultSearchMaxResults
	}
	if c.Search.MaxFileLines <= 0 {
		c.Search.MaxFileLines = DefaultSearchMaxLines
	}
}
