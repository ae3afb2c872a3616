package app

import "github.com/thenoetrevino/pasoboard/internal/daemon"

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	broker     daemon.Broker
	hubOptions daemon.Options
}

// WithBroker uses broker instead of the one selected by the config
func WithBroker(broker daemon.Broker) Option {
	return func(cfg *appConfig) {
		cfg.broker = broker
	}
}

// WithHubOptions overrides the hub's timing and buffer settings
func WithHubOptions(opts daemon.Options) Option {
	return func(cfg *appConfig) {
		cfg.hubOptions = opts
	}
}
