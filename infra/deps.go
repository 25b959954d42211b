package infra

import (
	"github.com/Tsinling0525/flowrun/infra/httpclient"
	"github.com/Tsinling0525/flowrun/plugin"
)

// NewDeps wires the production handler dependencies from cfg.
func NewDeps(cfg *Config) plugin.Deps {
	return plugin.Deps{
		HTTP: httpclient.New(httpclient.Options{
			Timeout: cfg.HTTPTimeout,
			Retry: httpclient.RetryPolicy{
				MaxRetries: cfg.HTTPRetries,
				BaseDelay:  cfg.HTTPRetryBaseDelay,
				MaxDelay:   cfg.HTTPRetryMaxDelay,
				Jitter:     true,
			},
		}),
		Bus: LogBus{},
	}
}
