package driver

import (
	"errors"
	"log/slog"
	"time"

	"github.com/drawbridge-dev/drawbridge/pkg/assets"
	"github.com/drawbridge-dev/drawbridge/pkg/scene"
	"github.com/drawbridge-dev/drawbridge/pkg/transport"
)

// Config holds configuration for a Driver.
type Config struct {
	// Transport selects and configures the renderer transport.
	Transport transport.Config

	// ReconnectInterval is the fixed delay between reconnect attempts
	// after the transport is lost. Reconnection never gives up.
	// Default: 1 second.
	ReconnectInterval time.Duration

	// DesignWidth and DesignHeight are the logical canvas dimensions
	// the scene is authored for. Each renderer's reported device size
	// is letterboxed against them.
	// Default: 1280x720.
	DesignWidth  uint32
	DesignHeight uint32

	// Source is the host scene graph the driver reads scripts from.
	// Required.
	Source scene.Source

	// Input receives translated renderer input.
	// Default: scene.NopSink.
	Input scene.InputSink

	// Assets resolves the fonts, images and streams scripts reference.
	// Nil disables asset transmission; references are skipped.
	Assets assets.Store

	// Logger receives driver logs. Default: slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults and no
// transport, source or stores set.
func DefaultConfig() Config {
	return Config{
		ReconnectInterval: time.Second,
		DesignWidth:       1280,
		DesignHeight:      720,
	}
}

// Validate checks the configuration. Construction is the only point
// where errors surface to the host; everything after that is recovered
// internally.
func (c *Config) Validate() error {
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if c.Source == nil {
		return errors.New("driver: config needs a scene source")
	}
	if c.DesignWidth == 0 || c.DesignHeight == 0 {
		return errors.New("driver: config needs a nonzero design size")
	}
	return nil
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	if c.ReconnectInterval <= 0 {
		c.ReconnectInterval = time.Second
	}
	if c.DesignWidth == 0 {
		c.DesignWidth = 1280
	}
	if c.DesignHeight == 0 {
		c.DesignHeight = 720
	}
	if c.Input == nil {
		c.Input = scene.NopSink{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
