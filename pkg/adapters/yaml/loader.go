// Package yaml loads wizard configurations from YAML documents and
// compiles them into domain config plus schema types.
package yaml

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/schema"
)

// fileConfig is the YAML shape of a wizard definition.
type fileConfig struct {
	Kind             string            `yaml:"kind" mapstructure:"kind"`
	AutoSave         bool              `yaml:"autoSave" mapstructure:"autoSave"`
	AutoSaveInterval string            `yaml:"autoSaveInterval" mapstructure:"autoSaveInterval"`
	AllowSkipSteps   bool              `yaml:"allowSkipSteps" mapstructure:"allowSkipSteps"`
	Steps            []stepConfig      `yaml:"steps" mapstructure:"steps"`
	CrossRules       []crossRuleConfig `yaml:"crossRules" mapstructure:"crossRules"`
}

type stepConfig struct {
	ID          string                 `yaml:"id" mapstructure:"id"`
	Title       string                 `yaml:"title" mapstructure:"title"`
	Description string                 `yaml:"description" mapstructure:"description"`
	Optional    bool                   `yaml:"optional" mapstructure:"optional"`
	Fields      map[string]fieldConfig `yaml:"fields" mapstructure:"fields"`
}

type fieldConfig struct {
	Type     string   `yaml:"type" mapstructure:"type"`
	Required bool     `yaml:"required" mapstructure:"required"`
	Min      *float64 `yaml:"min" mapstructure:"min"`
	Max      *float64 `yaml:"max" mapstructure:"max"`
	MinLen   *int     `yaml:"minLen" mapstructure:"minLen"`
	MaxLen   *int     `yaml:"maxLen" mapstructure:"maxLen"`
	Enum     []string `yaml:"enum" mapstructure:"enum"`
	Pattern  string   `yaml:"pattern" mapstructure:"pattern"`
}

// crossRuleConfig declares the require-when-present shape: if "requires"
// is filled, "field" must be too.
type crossRuleConfig struct {
	Field    string `yaml:"field" mapstructure:"field"`
	Requires string `yaml:"requires" mapstructure:"requires"`
}

// Load reads and compiles a wizard configuration file.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wizard config: %w", err)
	}
	return Parse(data)
}

// Parse compiles a YAML document into a wizard configuration.
func Parse(data []byte) (*domain.Config, error) {
	var cfg fileConfig
	if err := yamlv3.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wizard config: %w", err)
	}
	return build(&cfg)
}

// FromMap compiles an already-decoded document (an HTTP payload, a
// frontmatter block) into a wizard configuration.
func FromMap(m map[string]any) (*domain.Config, error) {
	var cfg fileConfig
	if err := mapstructure.Decode(m, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode wizard config: %w", err)
	}
	return build(&cfg)
}

func build(cfg *fileConfig) (*domain.Config, error) {
	kind, err := domain.ParseKind(cfg.Kind)
	if err != nil {
		return nil, err
	}

	out := &domain.Config{
		Kind:           kind,
		AutoSave:       cfg.AutoSave,
		AllowSkipSteps: cfg.AllowSkipSteps,
		Document: &schema.DocumentSchema{
			Steps: make(map[string]*schema.StepSchema),
		},
	}

	if cfg.AutoSaveInterval != "" {
		interval, err := time.ParseDuration(cfg.AutoSaveInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid autoSaveInterval %q: %w", cfg.AutoSaveInterval, err)
		}
		out.AutoSaveInterval = interval
	}

	for _, sc := range cfg.Steps {
		step := domain.Step{
			ID:          sc.ID,
			Title:       sc.Title,
			Description: sc.Description,
			Optional:    sc.Optional,
		}
		if len(sc.Fields) > 0 {
			ss, err := buildStepSchema(sc.ID, sc.Fields)
			if err != nil {
				return nil, err
			}
			step.Schema = ss
			out.Document.Steps[sc.ID] = ss
		}
		out.Steps = append(out.Steps, step)
	}

	for _, rc := range cfg.CrossRules {
		if rc.Field == "" || rc.Requires == "" {
			return nil, fmt.Errorf("cross rule needs both field and requires, got %+v", rc)
		}
		out.Document.CrossRules = append(out.Document.CrossRules,
			schema.RequireWhenPresent(rc.Field, rc.Requires))
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildStepSchema(stepID string, fields map[string]fieldConfig) (*schema.StepSchema, error) {
	ss := schema.NewStepSchema()
	for name, fc := range fields {
		typ, err := schema.ParseType(fc.Type)
		if err != nil {
			return nil, fmt.Errorf("step %s, field %s: %w", stepID, name, err)
		}
		ss.Fields[name] = &schema.Field{
			Type:     typ,
			Required: fc.Required,
			Min:      fc.Min,
			Max:      fc.Max,
			MinLen:   fc.MinLen,
			MaxLen:   fc.MaxLen,
			Enum:     fc.Enum,
			Pattern:  fc.Pattern,
		}
	}
	if err := ss.Compile(); err != nil {
		return nil, fmt.Errorf("step %s: %w", stepID, err)
	}
	return ss, nil
}
