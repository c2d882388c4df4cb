package objectfs

import (
	"github.com/objectfs/objectfs/internal/config"
)

// Config carries the recognized options spec.md §6 names for opening a
// store session, forwarded to whichever adapter Open selects. Fields beyond
// Anon apply only to the scheme they are named for; an adapter that does
// not use a field ignores it. Extra is passed to every adapter's Config,
// but only the S3 adapter reads it, and only its "force_path_style" key.
type Config struct {
	// Anon forces anonymous access, skipping credential discovery entirely.
	Anon bool

	// S3-only.
	AWSEndpointURL string
	AWSKey         string
	AWSSecret      string
	AWSToken       string
	RegionName     string

	// Azure-only.
	AzureAccountName string
	AzureAccountKey  string

	// Extra carries additional transport-specific keys. The S3 adapter
	// honors "force_path_style" = "true"; every other key, and Extra as a
	// whole for GCS and Azure, is ignored rather than passed to the SDK.
	Extra map[string]string
}

// FromDefaults overlays cfg onto a BackendConfig loaded from an on-disk
// defaults file, letting a caller building many Configs share one set of
// session defaults (endpoint, region, anon) per scheme while still
// overriding per-call fields explicitly.
func (c Config) FromDefaults(defaults config.BackendConfig) Config {
	if !c.Anon {
		c.Anon = defaults.Anon
	}
	if c.AWSEndpointURL == "" {
		c.AWSEndpointURL = defaults.EndpointURL
	}
	if c.RegionName == "" {
		c.RegionName = defaults.Region
	}
	if c.Extra == nil && defaults.Extra != nil {
		c.Extra = defaults.Extra
	}
	return c
}
