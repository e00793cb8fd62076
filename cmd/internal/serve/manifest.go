package serve

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest declares the guests a supervisor keeps running.
type Manifest struct {
	Services []ServiceSpec `yaml:"services"`
}

// ServiceSpec configures one supervised guest. Zero-valued fields get
// defaults when the manifest is parsed.
type ServiceSpec struct {
	// Name identifies the service. It doubles as the guest's module
	// name, so it must be unique within a manifest.
	Name string `yaml:"name"`

	// Module is the path to the guest bytecode.
	Module string `yaml:"module"`

	// Entry is the export invoked on each run. Defaults to _start.
	Entry string `yaml:"entry"`

	Args []string `yaml:"args"`
	Env  []string `yaml:"env"`

	// Every reruns the service periodically after a successful run.
	// When zero, a successful run retires the service.
	Every Duration `yaml:"every"`
}

func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	return ParseManifest(b)
}

func ParseManifest(b []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}

	if len(m.Services) == 0 {
		return nil, errors.New("manifest declares no services")
	}

	seen := make(map[string]struct{}, len(m.Services))
	for i := range m.Services {
		s := &m.Services[i]

		if s.Name == "" {
			return nil, errors.Errorf("service %d: missing name", i)
		}
		if _, ok := seen[s.Name]; ok {
			return nil, errors.Errorf("service %q declared twice", s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.Module == "" {
			return nil, errors.Errorf("service %q: missing module", s.Name)
		}
		if s.Entry == "" {
			s.Entry = "_start"
		}
	}

	return &m, nil
}

// Duration decodes from the usual suffixed form, e.g. "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", s)
	}

	*d = Duration(v)
	return nil
}
