package server

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/store"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings
	Table  TableSettings
	Store  StoreSettings
}

// fileConfig is the HCL layout. Every block is optional.
type fileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
	Store  *StoreSettings  `hcl:"store,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings applies to every room the server hosts
type TableSettings struct {
	MinPlayers       int    `hcl:"min_players,optional"`
	MaxPlayers       int    `hcl:"max_players,optional"`
	ReconnectTimeout string `hcl:"reconnect_timeout,optional"`
}

// StoreSettings selects where rooms are persisted
type StoreSettings struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			MinPlayers:       2,
			MaxPlayers:       10,
			ReconnectTimeout: DefaultReconnectTimeout.String(),
		},
		Store: StoreSettings{
			Driver: store.DriverFile,
			DSN:    "rooms",
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseServerConfig(src, filename)
}

// ParseServerConfig decodes HCL source, filling anything unset from the
// defaults
func ParseServerConfig(src []byte, filename string) (*ServerConfig, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var file fileConfig
	diags = gohcl.DecodeBody(f.Body, nil, &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultServerConfig()
	if s := file.Server; s != nil {
		if s.Address != "" {
			config.Server.Address = s.Address
		}
		if s.Port != 0 {
			config.Server.Port = s.Port
		}
		if s.LogLevel != "" {
			config.Server.LogLevel = s.LogLevel
		}
	}
	if t := file.Table; t != nil {
		if t.MinPlayers != 0 {
			config.Table.MinPlayers = t.MinPlayers
		}
		if t.MaxPlayers != 0 {
			config.Table.MaxPlayers = t.MaxPlayers
		}
		if t.ReconnectTimeout != "" {
			config.Table.ReconnectTimeout = t.ReconnectTimeout
		}
	}
	if st := file.Store; st != nil && st.Driver != "" {
		config.Store = *st
	}
	return config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}

	if c.Table.MinPlayers < 2 {
		return fmt.Errorf("table: min players must be at least 2")
	}
	if c.Table.MaxPlayers < c.Table.MinPlayers || c.Table.MaxPlayers > 10 {
		return fmt.Errorf("table: max players must be between min players and 10")
	}
	timeout, err := time.ParseDuration(c.Table.ReconnectTimeout)
	if err != nil {
		return fmt.Errorf("table: reconnect timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("table: reconnect timeout must be positive")
	}

	switch c.Store.Driver {
	case store.DriverMemory:
	case store.DriverFile, store.DriverSQLite, store.DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store: %s driver needs a dsn", c.Store.Driver)
		}
	default:
		return fmt.Errorf("store: unknown driver %q", c.Store.Driver)
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig returns the seating limits for new tables
func (c *ServerConfig) TableConfig() game.Config {
	return game.Config{MinPlayers: c.Table.MinPlayers, MaxPlayers: c.Table.MaxPlayers}
}

// ReconnectTimeout returns the parsed reconnect window. Call Validate first.
func (c *ServerConfig) ReconnectTimeout() time.Duration {
	d, err := time.ParseDuration(c.Table.ReconnectTimeout)
	if err != nil {
		return DefaultReconnectTimeout
	}
	return d
}
