// Package config loads the governance council's on-disk configuration:
// the team roster (agents.yaml), paths and mode settings (agent.yaml),
// and default review parameters (query.yaml). Loading applies defaults,
// then the YAML files; environment variables are not consulted (the env
// struct tags are not read by Load).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhcook/agentic-governance/governance"
)

// TeamMember mirrors one entry of agents.yaml's "team" list.
type TeamMember struct {
	Role             string   `yaml:"role"`
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Responsibilities []string `yaml:"responsibilities"`
	GovernanceChecks []string `yaml:"governance_checks"`
	Instruction      string   `yaml:"instruction"`
}

// AgentsFile is the parsed shape of agents.yaml.
type AgentsFile struct {
	Team []TeamMember `yaml:"team"`
}

// Config is the governance council's fully resolved configuration.
type Config struct {
	// AgentDir is the repository-relative root for .agent/ artifacts.
	AgentDir string `yaml:"agent_dir" env:"AGENT_DIR"`
	// ADRsDir holds ADR-NNN.md / EXC-NNN.md knowledge-base files.
	ADRsDir string `yaml:"adrs_dir" env:"ADRS_DIR"`
	// JourneysDir holds JRN-NNN.yaml files, scanned recursively.
	JourneysDir string `yaml:"journeys_dir" env:"JOURNEYS_DIR"`
	// Mode is the default CouncilMode when a caller doesn't pick one.
	Mode string `yaml:"mode" env:"MODE"`
	// Engine is the configured Engine name for callers to pass as
	// ConveneRequest.Engine; the orchestrator itself does not read Config,
	// and an empty ConveneRequest.Engine means native.
	Engine string `yaml:"engine" env:"ENGINE"`
	// StrictTimeout mirrors ConveneRequest.StrictTimeout as a deployment-wide default.
	StrictTimeout bool `yaml:"strict_timeout" env:"STRICT_TIMEOUT"`
	// MaxConcurrentRoles mirrors ConveneRequest.MaxConcurrentRoles.
	MaxConcurrentRoles int `yaml:"max_concurrent_roles" env:"MAX_CONCURRENT_ROLES"`

	// MCPServers is carried through from query.yaml verbatim; the council
	// core never dereferences it; it exists so deployments that layer
	// MCP-backed tools on top of the council can read it back out.
	MCPServers []map[string]any `yaml:"mcp_servers"`

	// Provider is the configured forced provider (spec.md §6's
	// "agent.provider"), for callers to pass as
	// ConveneRequest.ForcedProvider. Empty means no forced default.
	Provider string `yaml:"provider" env:"PROVIDER"`
	// Models maps a provider name to its default model (spec.md §6's
	// "agent.models.{provider}"), consulted when neither a Router Policy
	// rule nor the caller supplies one.
	Models map[string]string `yaml:"models"`
	// RouterPolicyRules is the string-trigger map spec.md §4.1 step 1
	// consults before falling back to Provider/Models, in configured
	// priority order.
	RouterPolicyRules []RouterPolicyRule `yaml:"router_policy"`

	Team []TeamMember `yaml:"-"`
}

// RouterPolicyRule maps a prompt keyword to the provider/model the Router
// Policy should prefer when that keyword appears in the outbound prompt.
type RouterPolicyRule struct {
	Keyword  string `yaml:"keyword"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// RouterPolicy is the compiled form of RouterPolicyRules: a simple
// string-trigger map, matched in priority order.
type RouterPolicy struct {
	rules []RouterPolicyRule
}

// Policy compiles c's router policy rules for use by the Provider Router.
func (c *Config) Policy() RouterPolicy {
	return RouterPolicy{rules: c.RouterPolicyRules}
}

// Match returns the first rule whose keyword appears in prompt
// (case-insensitive substring match), in configured priority order. ok is
// false if no rule matches, in which case the Router falls through to its
// configured default.
func (p RouterPolicy) Match(prompt string) (provider, model string, ok bool) {
	lower := strings.ToLower(prompt)
	for _, r := range p.rules {
		if r.Keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(r.Keyword)) {
			return r.Provider, r.Model, true
		}
	}
	return "", "", false
}

// DefaultConfig returns the configuration used when no YAML files are
// present, matching the original's hardcoded-role fallback behavior.
func DefaultConfig() *Config {
	return &Config{
		AgentDir:           ".agent",
		ADRsDir:            ".agent/adrs",
		JourneysDir:        ".agent/journeys",
		Mode:               string(governance.ModeGatekeeper),
		Engine:             "native",
		MaxConcurrentRoles: 3,
	}
}

// Load reads agent.yaml and agents.yaml (and, if present, query.yaml) from
// <repoRoot>/.agent/etc/, falling back to DefaultConfig for any file that
// is missing.
func Load(repoRoot string) (*Config, error) {
	cfg := DefaultConfig()
	etcDir := filepath.Join(repoRoot, ".agent", "etc")

	if err := mergeYAMLFile(filepath.Join(etcDir, "agent.yaml"), cfg); err != nil {
		return nil, fmt.Errorf("governance config: agent.yaml: %w", err)
	}

	team, err := loadTeam(filepath.Join(etcDir, "agents.yaml"))
	if err != nil {
		return nil, fmt.Errorf("governance config: agents.yaml: %w", err)
	}
	cfg.Team = team

	var query struct {
		MCPServers []map[string]any `yaml:"mcp_servers"`
	}
	if err := mergeYAMLFile(filepath.Join(etcDir, "query.yaml"), &query); err != nil {
		return nil, fmt.Errorf("governance config: query.yaml: %w", err)
	}
	cfg.MCPServers = query.MCPServers

	return cfg, nil
}

// Roles converts the loaded team roster into governance.Role values,
// falling back to a minimal hardcoded panel when agents.yaml is absent or
// empty — the same contract load_roles() in the original implementation
// upheld so a repository with no .agent/etc/ still gets a working council.
func (c *Config) Roles() []governance.Role {
	if len(c.Team) == 0 {
		return defaultRoles()
	}

	roles := make([]governance.Role, 0, len(c.Team))
	for _, m := range c.Team {
		focus := m.Description
		if len(m.Responsibilities) > 0 {
			focus += " Priorities: " + strings.Join(m.Responsibilities, ", ") + "."
		}
		roles = append(roles, governance.Role{
			Name:        m.Name,
			Focus:       focus,
			Instruction: m.Instruction,
		})
	}
	return roles
}

func defaultRoles() []governance.Role {
	return []governance.Role{
		{Name: "Architect", Focus: "System architecture, design patterns, and long-term maintainability."},
		{Name: "Security", Focus: "Authentication, authorization, secrets handling, and injection risk."},
		{Name: "QA", Focus: "Test coverage, edge cases, and regression risk."},
		{Name: "Web", Focus: "Web accessibility, responsive design, and browser compatibility."},
	}
}

func mergeYAMLFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, out)
}

func loadTeam(path string) ([]TeamMember, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var f AgentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Team, nil
}
