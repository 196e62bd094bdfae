package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

// TomlPartner represents partner configuration from TOML
type TomlPartner struct {
	ID   string `toml:"id"`
	Name string `toml:"name,omitempty"`

	// Format names the feed formatter this partner receives when the request
	// does not pick one, e.g. "zillow-xml" or "mhvillage-json".
	Format string `toml:"format,omitempty"`

	// Token is an optional partner specific format query value registered in
	// the formatter registry in addition to the built in tokens.
	Token string `toml:"token,omitempty"`

	// LeadEmail overrides the contact email written into the partner's feed
	// unless the request carries its own leadEmail parameter.
	LeadEmail string `toml:"lead_email,omitempty"`

	// ListingTypes restricts the feed to these listing/property types when
	// the request does not pass listingTypes itself.
	ListingTypes []string `toml:"listing_types,omitempty"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Partners []TomlPartner `toml:"partners"`
}

func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

// Partner looks up a partner entry by id.
func (c *TomlConfig) Partner(id string) (TomlPartner, bool) {
	return lo.Find(c.Partners, func(p TomlPartner) bool {
		return p.ID == id
	})
}

// Save writes the configuration back to the given path.
func (c *TomlConfig) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
