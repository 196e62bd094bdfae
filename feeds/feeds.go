package feeds

import (
	"propfeed/config"

	log "github.com/sirupsen/logrus"
)

// Registry maps format tokens from the request to formatters. Unknown or
// absent tokens fall back to the ILS XML formatter, so a partner can never
// request a format we do not produce.
type Registry struct {
	tokens   map[string]Formatter
	named    map[string]Formatter
	fallback Formatter
}

// NewRegistry returns a registry seeded with the built in formatters and
// their request tokens. The "JSON" token is matched case sensitively.
func NewRegistry() *Registry {
	named := map[string]Formatter{
		ZillowXML.Name:     ZillowXML,
		MHVillageJSON.Name: MHVillageJSON,
	}
	return &Registry{
		tokens: map[string]Formatter{
			"JSON": MHVillageJSON,
		},
		named:    named,
		fallback: ZillowXML,
	}
}

// Register binds a request format token to a formatter.
func (r *Registry) Register(token string, f Formatter) {
	r.tokens[token] = f
}

// Resolve returns the formatter for a request format token, falling back to
// the default XML formatter for unknown tokens.
func (r *Registry) Resolve(token string) Formatter {
	if f, ok := r.tokens[token]; ok {
		return f
	}
	return r.fallback
}

// Named returns a formatter by its configured name, falling back to the
// default XML formatter.
func (r *Registry) Named(name string) Formatter {
	if f, ok := r.named[name]; ok {
		return f
	}
	return r.fallback
}

// InitializeRegistry seeds a registry from the partner configuration,
// registering any partner specific format tokens.
func InitializeRegistry(cfg *config.TomlConfig) *Registry {
	r := NewRegistry()

	if cfg == nil {
		return r
	}

	for _, partner := range cfg.Partners {
		if partner.Token == "" {
			continue
		}
		f, ok := r.named[partner.Format]
		if !ok {
			log.WithFields(log.Fields{
				"partner": partner.ID,
				"format":  partner.Format,
			}).Warn("Partner references unknown format, skipping token")
			continue
		}
		r.Register(partner.Token, f)
	}

	return r
}
