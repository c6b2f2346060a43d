// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	Services       Services       `yaml:"services"`
	Client         Client         `yaml:"client"`
	TokenStore     TokenStore     `yaml:"tokenStore"`
	ValKey         ValKey         `yaml:"valkey"`
	TokenRefresher TokenRefresher `yaml:"tokenRefresher"`
}

// Services holds the base URL of every backend service. They all share the
// gateway address unless deployed separately.
type Services struct {
	Users         string `yaml:"users" default:"http://localhost:8080/api" validate:"required,url"`
	Tasks         string `yaml:"tasks" default:"http://localhost:8080/api" validate:"required,url"`
	Bidding       string `yaml:"bidding" default:"http://localhost:8080/api" validate:"required,url"`
	Payments      string `yaml:"payments" default:"http://localhost:8080/api" validate:"required,url"`
	Notifications string `yaml:"notifications" default:"http://localhost:8080/api" validate:"required,url"`
}

type Client struct {
	Timeout   time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
	Leeway    time.Duration `yaml:"leeway" validate:"gte=0"`
	UserAgent string        `yaml:"userAgent" default:"mshando-client"`

	// DisableRefreshDedup lets every rejected request run its own refresh
	// instead of sharing the one in flight.
	DisableRefreshDedup bool `yaml:"disableRefreshDedup"`
}

type TokenStoreType string

const (
	TokenStoreMemory TokenStoreType = "memory"
	TokenStoreFile   TokenStoreType = "file"
	TokenStoreValKey TokenStoreType = "valkey"
)

type TokenStore struct {
	Type TokenStoreType `yaml:"type" default:"file" validate:"oneof=memory file valkey"`
	// Path of the credentials file, environment variables are expanded.
	Path string `yaml:"path" default:"$HOME/.mshando/credentials.yaml"`
}

type ValKey struct {
	Host      commoncfg.SourceRef `yaml:"host"`
	User      commoncfg.SourceRef `yaml:"user"`
	Password  commoncfg.SourceRef `yaml:"password"`
	SecretRef commoncfg.SecretRef `yaml:"secretRef"`
	Prefix    string              `yaml:"prefix" default:"mshando"`

	// DisableCache turns off client side caching, for servers without
	// CLIENT TRACKING support.
	DisableCache bool `yaml:"disableCache"`
}

type TokenRefresher struct {
	Interval  time.Duration `yaml:"interval" default:"1m" validate:"gt=0"`
	Threshold time.Duration `yaml:"threshold" default:"2m" validate:"gte=0"`
}
