package domain

// SiteConfig is the singleton front-page configuration.
type SiteConfig struct {
	LiveStreamURL      *string `json:"live_stream_url"`
	IsLiveActive       bool    `json:"is_live_active"`
	BreakingNewsBanner *string `json:"breaking_news_banner"`
}

// DefaultSiteConfig is served while no configuration has been saved.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{IsLiveActive: true}
}

// SiteConfigPatch updates the site configuration field by field.
type SiteConfigPatch struct {
	LiveStreamURL      Optional[string] `json:"live_stream_url"`
	IsLiveActive       Optional[bool]   `json:"is_live_active"`
	BreakingNewsBanner Optional[string] `json:"breaking_news_banner"`
}

// Apply merges the present fields of p into cfg.
func (p SiteConfigPatch) Apply(cfg SiteConfig) SiteConfig {
	if p.LiveStreamURL.Present {
		cfg.LiveStreamURL = p.LiveStreamURL.Ptr()
	}
	if p.IsLiveActive.Present && !p.IsLiveActive.Null {
		cfg.IsLiveActive = p.IsLiveActive.Value
	}
	if p.BreakingNewsBanner.Present {
		cfg.BreakingNewsBanner = p.BreakingNewsBanner.Ptr()
	}
	return cfg
}
