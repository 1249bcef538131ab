package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/peco/filterless/internal/util"
)

// ColorMode specifies whether output written outside of the terminal UI
// (dump mode) is colored.
type ColorMode string

const (
	ColorModeAuto ColorMode = "auto"
	ColorModeNone ColorMode = "none"
)

func (c *ColorMode) unmarshal(s string) error {
	switch s {
	case "", "auto":
		*c = ColorModeAuto
	case "none":
		*c = ColorModeNone
	default:
		return fmt.Errorf("invalid Color value %q: must be %q or %q", s, ColorModeAuto, ColorModeNone)
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by JSON/YAML decoders).
func (c *ColorMode) UnmarshalText(b []byte) error {
	return c.unmarshal(string(b))
}

// UnmarshalFlag implements go-flags Unmarshaler (used by CLI flag parsing).
func (c *ColorMode) UnmarshalFlag(s string) error {
	return c.unmarshal(s)
}

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	// Keymap maps key sequences (e.g. "C-n", "Space") to action names
	// (e.g. "filterless.NextLine"). Entries here override the defaults.
	Keymap        map[string]string `json:"Keymap" yaml:"Keymap"`
	InitialFilter string            `json:"InitialFilter" yaml:"InitialFilter"`
	Style         StyleSet          `json:"Style" yaml:"Style"`
	Prompt        string            `json:"Prompt" yaml:"Prompt"`
	Color         ColorMode         `json:"Color" yaml:"Color"`

	// ContextLines is the number of lines shown around each match
	ContextLines int `json:"ContextLines" yaml:"ContextLines"`

	// GapMarker is drawn in place of lines hidden by the filter
	GapMarker string `json:"GapMarker" yaml:"GapMarker"`

	TabWidth int `json:"TabWidth" yaml:"TabWidth"`

	// MaxScanBufferSize is the longest line accepted from the input, in KB
	MaxScanBufferSize int `json:"MaxScanBufferSize" yaml:"MaxScanBufferSize"`

	// StripANSI removes terminal escape sequences from the input
	StripANSI bool `json:"StripANSI" yaml:"StripANSI"`
}

const (
	DefaultPrompt            = "/"
	DefaultContextLines      = 3
	DefaultGapMarker         = "-----"
	DefaultTabWidth          = 8
	DefaultMaxScanBufferSize = 256
)

var homedirFunc = util.Homedir

// Init initializes the Config with default values
func (c *Config) Init() error {
	c.Keymap = make(map[string]string)
	c.Style.Init()
	c.Prompt = DefaultPrompt
	c.ContextLines = DefaultContextLines
	c.GapMarker = DefaultGapMarker
	c.TabWidth = DefaultTabWidth
	c.MaxScanBufferSize = DefaultMaxScanBufferSize
	return nil
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		err = json.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	return c.Validate()
}

// Validate checks values that the decoders cannot check by themselves
func (c *Config) Validate() error {
	if c.ContextLines < 0 {
		return fmt.Errorf("invalid ContextLines %d: must not be negative", c.ContextLines)
	}
	if c.TabWidth < 1 {
		return fmt.Errorf("invalid TabWidth %d: must be at least 1", c.TabWidth)
	}
	if c.MaxScanBufferSize < 1 {
		return fmt.Errorf("invalid MaxScanBufferSize %d: must be at least 1", c.MaxScanBufferSize)
	}
	if c.GapMarker == "" {
		return errors.New("GapMarker must not be empty")
	}
	return nil
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml) in the given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", fmt.Errorf("config file not found in %s", dir)
})

// LocateRcfile attempts to find the config file in various locations
func LocateRcfile(locater Locator) (string, error) {
	// http://standards.freedesktop.org/basedir-spec/basedir-spec-latest.html
	//
	// Try in this order:
	//	  $XDG_CONFIG_HOME/filterless/config.{json,yaml,yml}
	//    $XDG_CONFIG_DIR/filterless/config.{json,yaml,yml} (where XDG_CONFIG_DIR is listed in $XDG_CONFIG_DIRS)
	//	  ~/.filterless/config.{json,yaml,yml}

	home, uErr := homedirFunc()

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locater.Locate(filepath.Join(dir, "filterless")); err == nil {
			return file, nil
		}
	} else if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".config", "filterless")); err == nil {
			return file, nil
		}
	}

	// the basedir spec says ":", but filepath.ListSeparator also does
	// the right thing on windows
	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for dir := range strings.SplitSeq(dirs, fmt.Sprintf("%c", filepath.ListSeparator)) {
			if file, err := locater.Locate(filepath.Join(dir, "filterless")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".filterless")); err == nil {
			return file, nil
		}
	}

	return "", errors.New("config file not found")
}
