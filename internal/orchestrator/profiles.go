package orchestrator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1homsi/depscope/internal/model"
)

// profileConfig is the on-disk YAML shape for classification profiles and
// keep rules, loaded the same way the teacher's embedded pattern sets are
// (gopkg.in/yaml.v3), but from an external file rather than go:embed since
// profiles are per-repository configuration, not a closed shipped catalog.
type profileConfig struct {
	Profiles  []profileEntry `yaml:"profiles"`
	KeepRules []interface{}  `yaml:"keepRules"`
}

type profileEntry struct {
	Name  string                 `yaml:"name"`
	Flags map[string]interface{} `yaml:"flags"`
}

// LoadProfileConfig reads a YAML profile/keep-rule file. A missing path
// yields the zero config (default profile, no keep rules) rather than an
// error — profile configuration is always optional.
func LoadProfileConfig(path string) ([]model.Profile, []interface{}, error) {
	if path == "" {
		return nil, nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile config: %w", err)
	}

	var cfg profileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("load profile config: parse %s: %w", path, err)
	}

	var profiles []model.Profile
	for _, p := range cfg.Profiles {
		profiles = append(profiles, model.Profile{Name: p.Name, Flags: p.Flags})
	}
	return profiles, cfg.KeepRules, nil
}
