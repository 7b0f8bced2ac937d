package tincup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tincup-go/tincup/cpo"
)

// ErrConfig is returned for a malformed configuration file.
var ErrConfig = errors.New("invalid tincup configuration")

// fileConfig is the YAML form of cpo.DiagnosticConfig:
//
//	level: 2
//	disable: [order]
//	ignore: ["needs-*"]
//	color: auto
//	rules:
//	  - name: all-const
//	    when: "arity > 0 && const_count == arity"
//	    message: "every argument is read-only"
type fileConfig struct {
	Level   *int       `yaml:"level"`
	Disable []string   `yaml:"disable"`
	Ignore  []string   `yaml:"ignore"`
	Color   string     `yaml:"color"`
	Rules   []fileRule `yaml:"rules"`
}

type fileRule struct {
	Name    string `yaml:"name"`
	When    string `yaml:"when"`
	Message string `yaml:"message"`
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (cpo.DiagnosticConfig, error) {
	return ApplyConfigFile(cpo.DefaultDiagnosticConfig(), path)
}

// ApplyConfigFile reads a YAML configuration file on top of base.
func ApplyConfigFile(base cpo.DiagnosticConfig, path string) (cpo.DiagnosticConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	d, err := ParseConfig(base, data)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ParseConfig decodes YAML configuration onto base. Fields absent from the
// document keep their value in base; rules are appended.
func ParseConfig(base cpo.DiagnosticConfig, data []byte) (cpo.DiagnosticConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	d := base
	if fc.Level != nil {
		if *fc.Level < 0 || *fc.Level > 3 {
			return base, fmt.Errorf("%w: level %d out of range 0-3", ErrConfig, *fc.Level)
		}
		d.Level = *fc.Level
	}
	for _, cat := range fc.Disable {
		switch strings.ToLower(cat) {
		case "pointer":
			d.DisablePointer = true
		case "const":
			d.DisableConst = true
		case "order":
			d.DisableOrder = true
		case "arity":
			d.DisableArity = true
		case "all":
			d.DisablePointer, d.DisableConst, d.DisableOrder, d.DisableArity = true, true, true, true
		default:
			return base, fmt.Errorf("%w: unknown category %q in disable", ErrConfig, cat)
		}
	}
	d.Ignore = append(append([]string(nil), base.Ignore...), fc.Ignore...)
	if fc.Color != "" {
		m, err := cpo.ParseColorMode(fc.Color)
		if err != nil {
			return base, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		d.Color = m
	}
	d.Rules = append([]cpo.PatternRule(nil), base.Rules...)
	for _, r := range fc.Rules {
		d.Rules = append(d.Rules, cpo.PatternRule{Name: r.Name, When: r.When, Message: r.Message})
	}
	if err := d.Validate(); err != nil {
		return base, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return d, nil
}
