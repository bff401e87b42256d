// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	Auth       Service `yaml:"auth"`
	Processing Service `yaml:"processing"`
	Store      Store   `yaml:"store"`
}

// Service locates one remote collaborator.
type Service struct {
	BaseURL string        `yaml:"baseURL" default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" default:"30s"`
}

// StoreBackend selects where tokens and history live.
type StoreBackend string

const (
	StoreBackendFile   StoreBackend = "file"
	StoreBackendValKey StoreBackend = "valkey"
)

type Store struct {
	Backend StoreBackend `yaml:"backend" default:"file"`

	// Path is the state file location for the file backend. Empty means a
	// file under the user config directory.
	Path string `yaml:"path"`

	ValKey ValKey `yaml:"valkey"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix"`
}
