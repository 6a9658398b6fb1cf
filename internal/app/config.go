package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/iolinks/internal/config"
	"github.com/specialistvlad/iolinks/internal/linkfilter"
	"github.com/specialistvlad/iolinks/internal/topopath"
)

// AllNodes is the Node value that selects global discovery.
const AllNodes int64 = -1

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Root    string `validate:"required"`
	Node    int64  `validate:"gte=-1,lte=4294967295"` // AllNodes or a node index
	OnError string `validate:"oneof=abort skip"`

	Format      string             `validate:"oneof=text table json yaml"`
	Filter      *linkfilter.Filter `validate:"-"`
	MetricsFile string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
}

// DefaultConfig reads the live kernel tree and prints a text listing.
func DefaultConfig() Config {
	return Config{
		Root:      topopath.DefaultRoot,
		Node:      AllNodes,
		OnError:   "abort",
		Format:    "text",
		LogFormat: "text",
		LogLevel:  "info",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return nil, errors.New(strings.Join(msgs, "; "))
	}
	return &cfg, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is a required configuration field and cannot be empty", fe.Field())
	case "oneof":
		return fmt.Sprintf("invalid %s %q: must be one of [%s]", fe.Field(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("invalid %s %v: failed %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
	}
}

// ApplyModel overlays every value set in a configuration file.
func (c *Config) ApplyModel(m *config.Model) {
	if m == nil {
		return
	}
	if t := m.Topology; t != nil {
		setString(&c.Root, t.Root)
		setString(&c.OnError, t.OnError)
		if t.Node != nil {
			c.Node = *t.Node
		}
	}
	if o := m.Output; o != nil {
		setString(&c.Format, o.Format)
		setString(&c.MetricsFile, o.MetricsFile)
		if o.Where != nil {
			c.Filter = linkfilter.New(o.Where)
		}
	}
	if l := m.Logging; l != nil {
		setString(&c.LogLevel, l.Level)
		setString(&c.LogFormat, l.Format)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
