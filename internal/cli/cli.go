package cli

import (
	"github.com/thenoetrevino/pasoboard/internal/config"
	"github.com/thenoetrevino/pasoboard/internal/syncclient"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// CLI represents the CLI application context
type CLI struct {
	Config *config.Config
	Client *syncclient.Client
}

// New builds a CLI talking to the server named in cfg
func New(cfg *config.Config, opts ...syncclient.Option) *CLI {
	opts = append([]syncclient.Option{syncclient.WithTimeout(cfg.Client.SyncTimeout)}, opts...)
	return &CLI{
		Config: cfg,
		Client: syncclient.NewClient(cfg.Client.BaseURL, types.UserID(cfg.Client.UserID), opts...),
	}
}

// Actor is the user every request is made as
func (c *CLI) Actor() types.UserID {
	return types.UserID(c.Config.Client.UserID)
}
