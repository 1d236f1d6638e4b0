// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config defines the configuration of wait-for-ifs. A Config is
// assembled once at startup from defaults, an optional YAML file, command
// line flags and positional interface names, in increasing order of
// precedence, and is then passed unchanged to the poll loop.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"v.io/x/ifwait/cmd/flagvar"
)

const (
	// SourceIP selects the ip(8) command as the snapshot source.
	SourceIP = "ip"
	// SourceNetlink selects the kernel's netlink interface as the
	// snapshot source.
	SourceNetlink = "netlink"

	// DefaultPollInterval is the time slept between readiness checks.
	DefaultPollInterval = 2 * time.Second
	// MinPollInterval is the smallest accepted poll interval.
	MinPollInterval = 10 * time.Millisecond
)

// Config represents the complete configuration for a single run.
type Config struct {
	Targets      []string      `yaml:"interfaces" validate:"min=1,dive,required"`
	PollInterval time.Duration `yaml:"interval" flag:"interval,2s,time to sleep between readiness checks" validate:"min=10ms"`
	IPCommand    string        `yaml:"ip_command" flag:"ip-command,ip,name or path of the ip command" validate:"required"`
	Source       string        `yaml:"source" flag:"source,ip,'source of interface state, one of ip or netlink'" validate:"oneof=ip netlink"`
	Notify       bool          `yaml:"notify" flag:"notify,false,notify systemd once the interfaces are ready"`
	Watch        bool          `yaml:"watch" flag:"watch,false,re-check as soon as the kernel reports a link or address change"`
}

// Flags are the command line flags that are used to build a Config.
type Flags struct {
	File string `flag:"config,,'YAML configuration file, explicitly set flags override its contents'"`
	Config
}

// Default returns the configuration used when neither a file nor flags
// override it.
func Default() Config {
	return Config{
		PollInterval: DefaultPollInterval,
		IPCommand:    "ip",
		Source:       SourceIP,
	}
}

// RegisterFlags registers the fields of fl as flags on fs.
func RegisterFlags(fs *pflag.FlagSet, fl *Flags) error {
	return flagvar.RegisterFlagsInStruct(fs, "flag", fl, nil, nil)
}

// Parse parses the YAML encoded configuration in data. Settings that are
// not present in data retain their default values and unknown keys are
// an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses the YAML configuration file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

// Merge builds the configuration for a run. It starts from the file named
// by fl.File, if any, or the defaults, then applies every flag that was
// explicitly set on fs and finally appends the positional interface names
// in args. The result is validated.
func Merge(fs *pflag.FlagSet, fl *Flags, args []string) (Config, error) {
	cfg := Default()
	if len(fl.File) > 0 {
		var err error
		if cfg, err = LoadFile(fl.File); err != nil {
			return Config{}, err
		}
	}
	if err := overrideChanged(fs, &cfg, &fl.Config); err != nil {
		return Config{}, err
	}
	cfg.Targets = append(cfg.Targets, args...)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overrideChanged copies the fields of from whose flags were set on fs
// into to.
func overrideChanged(fs *pflag.FlagSet, to, from *Config) error {
	typ := reflect.TypeOf(*to)
	dst, src := reflect.ValueOf(to).Elem(), reflect.ValueOf(from).Elem()
	for i := 0; i < typ.NumField(); i++ {
		tag, ok := typ.Field(i).Tag.Lookup("flag")
		if !ok {
			continue
		}
		name, _, _, err := flagvar.ParseFlagTag(tag)
		if err != nil {
			return err
		}
		if fs.Changed(name) {
			dst.Field(i).Set(src.Field(i))
		}
	}
	return nil
}

// ErrNoInterfaces is returned by Validate when no interface names
// are configured.
var ErrNoInterfaces = errors.New("no interfaces specified")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate returns an error describing the first invalid setting in cfg.
func (cfg Config) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	switch {
	case e.Field() == "interfaces" && e.Tag() == "min":
		return ErrNoInterfaces
	case e.Tag() == "required" && strings.HasPrefix(e.Field(), "interfaces["):
		return fmt.Errorf("%s: empty interface name", e.Field())
	case e.Tag() == "required":
		return fmt.Errorf("%s: must be specified", e.Field())
	case e.Tag() == "min":
		return fmt.Errorf("%s: %v is less than the minimum of %s", e.Field(), e.Value(), e.Param())
	case e.Tag() == "oneof":
		return fmt.Errorf("%s: %q is not one of: %s", e.Field(), e.Value(), e.Param())
	}
	return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
}

// String returns a single line summary of cfg suitable for logging.
func (cfg Config) String() string {
	return fmt.Sprintf("interfaces: [%s], interval: %v, source: %s, ip command: %s, notify: %v, watch: %v",
		strings.Join(cfg.Targets, ", "), cfg.PollInterval, cfg.Source, cfg.IPCommand, cfg.Notify, cfg.Watch)
}
