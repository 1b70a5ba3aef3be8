package config

import (
	"crypto/tls"
	"net/http"
	"net/url"
)

// proxyConfig routes a provider's outbound traffic, e.g. to an on-premise
// layout service behind a corporate proxy.
type proxyConfig struct {
	URL string `yaml:"url"`

	Insecure bool `yaml:"insecure"`
}

func (cfg *proxyConfig) proxyTransport() (*http.Transport, error) {
	if cfg == nil || (cfg.URL == "" && !cfg.Insecure) {
		return nil, nil
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.URL != "" {
		proxyURL, err := url.Parse(cfg.URL)

		if err != nil {
			return nil, err
		}

		tr.Proxy = http.ProxyURL(proxyURL)
	}

	if cfg.Insecure {
		tr.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return tr, nil
}

// proxyClient returns nil when nothing needs to change.
func (cfg *proxyConfig) proxyClient() (*http.Client, error) {
	transport, err := cfg.proxyTransport()

	if err != nil || transport == nil {
		return nil, err
	}

	return &http.Client{
		Transport: transport,
	}, nil
}
