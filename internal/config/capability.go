package config

import (
	"os"

	"github.com/charmbracelet/log"
)

// Capability gates cloud synthesis on an API key. It satisfies the
// dispatcher's CapabilityProvider interface.
type Capability struct {
	key string
}

// NewCapability builds a credential gate seeded from cfg.
func NewCapability(cfg Config) *Capability {
	return &Capability{key: cfg.APIKey}
}

// HasCredential reports whether an API key is present.
func (c *Capability) HasCredential() bool {
	return c.key != ""
}

// RequestCredential re-checks the environment for a key and reports
// whether one is now present. There is no interactive prompt; the key
// comes from the config file or GEMINI_API_KEY.
func (c *Capability) RequestCredential() bool {
	if c.key != "" {
		return true
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.key = key
		return true
	}
	log.Debug("no cloud credential available")
	return false
}

// Key returns the credential for request signing.
func (c *Capability) Key() string {
	return c.key
}
