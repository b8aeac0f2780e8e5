// Package statsview serves runtime statistics over HTTP while the emulator
// runs. The server is only built in with the statsview tag:
//
//	go build -tags statsview ./cmd
//
// Without it Start returns ErrUnavailable.
package statsview

import (
	"errors"
	"time"
)

const (
	// DefaultAddress is used when Config.Addr is empty.
	DefaultAddress = "localhost:12650"
	// DefaultInterval is the sampling period when Config.Interval is zero.
	DefaultInterval = 2 * time.Second

	graphsPath = "/debug/statsview"
)

var ErrUnavailable = errors.New("stats server not built in, rebuild with -tags statsview")

type Config struct {
	Addr     string
	Interval time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddress
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return cfg
}

// URL returns where the graphs of a server started with cfg are served.
func (cfg Config) URL() string {
	return "http://" + cfg.withDefaults().Addr + graphsPath
}
