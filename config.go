package kernelsim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/kernelsim/internal/env"
	"github.com/viant/kernelsim/kernel"
	"github.com/viant/kernelsim/service/dao/scenario"
	"github.com/viant/kernelsim/service/runner"
	"github.com/viant/kernelsim/service/simulator"
	"github.com/viant/structology/conv"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON or YAML; keys left out keep their defaults.
type Config struct {
	Kernel    kernel.Config    `json:"kernel" yaml:"kernel"`
	Simulator simulator.Config `json:"simulator" yaml:"simulator"`
	Scenario  scenario.Config  `json:"scenario" yaml:"scenario"`
	Runner    runner.Config    `json:"runner" yaml:"runner"`
	Report    ReportConfig     `json:"report" yaml:"report"`
}

// ReportConfig selects the report store. An empty URL keeps reports in memory.
type ReportConfig struct {
	URL string `json:"url" yaml:"url"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Kernel:    kernel.DefaultConfig(),
		Simulator: simulator.DefaultConfig(),
		Scenario:  scenario.DefaultConfig(),
		Runner:    runner.DefaultConfig(),
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	return errors.Join(
		c.Kernel.Validate(),
		c.Simulator.Validate(),
		c.Scenario.Validate(),
		c.Runner.Validate(),
	)
}

// LoadConfig reads a YAML or JSON configuration on top of the defaults.
// ${env.NAME} references are expanded before decoding.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	data = []byte(env.Expand(string(data), os.LookupEnv))
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// ApplyOverrides sets dotted keys, named after the json tags
// ("kernel.quantum", "report.url"), from their textual values.
func (c *Config) ApplyOverrides(overrides map[string]string) error {
	if len(overrides) == 0 {
		return nil
	}
	values := map[string]interface{}{}
	for key, value := range overrides {
		names, err := fieldPath(reflect.TypeOf(*c), strings.Split(key, "."))
		if err != nil {
			return fmt.Errorf("invalid override %v: %w", key, err)
		}
		node := values
		for _, name := range names[:len(names)-1] {
			child, ok := node[name].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[name] = child
			}
			node = child
		}
		node[names[len(names)-1]] = value
	}
	converter := conv.NewConverter(conv.DefaultOptions())
	if err := converter.Convert(values, c); err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	return c.Validate()
}

// fieldPath resolves json tag names to Go field names.
func fieldPath(rType reflect.Type, keys []string) ([]string, error) {
	var ret []string
	for i, key := range keys {
		if rType.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%v is not a section", strings.Join(keys[:i], "."))
		}
		field, ok := lookupField(rType, key)
		if !ok {
			return nil, fmt.Errorf("unknown key %v", strings.Join(keys[:i+1], "."))
		}
		ret = append(ret, field.Name)
		rType = field.Type
	}
	if rType.Kind() == reflect.Struct {
		return nil, fmt.Errorf("%v is a section", strings.Join(keys, "."))
	}
	return ret, nil
}

func lookupField(rType reflect.Type, key string) (reflect.StructField, bool) {
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if strings.EqualFold(name, key) || strings.EqualFold(field.Name, key) {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
