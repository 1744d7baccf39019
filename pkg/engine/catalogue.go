package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalogue file base names. Each may carry a .yaml, .yml or .json extension.
const (
	RequirementsFile    = "requirements"
	ScoringFile         = "scoring"
	RemediationFile     = "remediation"
	ResourceMappingFile = "resource_mapping"
)

var catalogueExts = []string{".yaml", ".yml", ".json"}

// Defaults applied when the scoring file omits them
const (
	DefaultWeight            = 2
	DefaultPartialMultiplier = 0.4
)

// Requirement is a single regulatory requirement evaluated every run
type Requirement struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Category    string `yaml:"category" json:"category" validate:"required"`
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// WeightConfig holds the criticality weights used by the scoring engine
type WeightConfig struct {
	Weights           map[string]int `yaml:"weights" json:"weights" validate:"dive,gte=0"`
	DefaultWeight     int            `yaml:"default_weight" json:"default_weight" validate:"gte=0"`
	PartialMultiplier float64        `yaml:"partial_multiplier" json:"partial_multiplier" validate:"gte=0,lte=1"`
}

// Weight returns the weight for id, falling back to the default weight
func (w WeightConfig) Weight(id string) int {
	if v, ok := w.Weights[id]; ok {
		return v
	}
	return w.DefaultWeight
}

// ResourceEntry is an expert, programme or contact linked to requirements
type ResourceEntry struct {
	Name          string   `yaml:"name" json:"name" validate:"required"`
	Type          string   `yaml:"type" json:"type"`
	Contact       string   `yaml:"contact" json:"contact"`
	LinkedRuleIDs []string `yaml:"linked_rule_ids" json:"linked_rule_ids"`
}

// weightFile distinguishes omitted defaults from explicit zero values
type weightFile struct {
	Weights           map[string]int `yaml:"weights" json:"weights"`
	DefaultWeight     *int           `yaml:"default_weight" json:"default_weight"`
	PartialMultiplier *float64       `yaml:"partial_multiplier" json:"partial_multiplier"`
}

// Catalogue is the immutable set of requirements, weights, remediation
// templates and resources. Build it once at startup and share it.
type Catalogue struct {
	requirements []Requirement
	index        map[string]int
	weights      WeightConfig
	remediation  map[string]string
	resources    []ResourceEntry
}

// NewCatalogue validates its inputs and copies them into an immutable catalogue
func NewCatalogue(reqs []Requirement, weights WeightConfig, remediation map[string]string, resources []ResourceEntry) (*Catalogue, error) {
	c := &Catalogue{
		requirements: make([]Requirement, 0, len(reqs)),
		index:        make(map[string]int, len(reqs)),
		weights: WeightConfig{
			Weights:           make(map[string]int, len(weights.Weights)),
			DefaultWeight:     weights.DefaultWeight,
			PartialMultiplier: weights.PartialMultiplier,
		},
		remediation: make(map[string]string, len(remediation)),
		resources:   make([]ResourceEntry, 0, len(resources)),
	}

	for _, r := range reqs {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: requirement %q: %v", ErrConfiguration, r.ID, err)
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate requirement id %q", ErrConfiguration, r.ID)
		}
		c.index[r.ID] = len(c.requirements)
		c.requirements = append(c.requirements, r)
	}

	if err := validate.Struct(weights); err != nil {
		return nil, fmt.Errorf("%w: scoring: %v", ErrConfiguration, err)
	}
	for id, w := range weights.Weights {
		c.weights.Weights[id] = w
	}
	for id, text := range remediation {
		c.remediation[id] = text
	}
	for _, r := range resources {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: resource %q: %v", ErrConfiguration, r.Name, err)
		}
		r.LinkedRuleIDs = append([]string(nil), r.LinkedRuleIDs...)
		c.resources = append(c.resources, r)
	}
	return c, nil
}

// LoadCatalogue reads the four catalogue files from dir. Any missing or
// malformed file is a configuration error.
func LoadCatalogue(dir string) (*Catalogue, error) {
	var reqs []Requirement
	if err := readCatalogueFile(dir, RequirementsFile, &reqs); err != nil {
		return nil, err
	}

	var wf weightFile
	if err := readCatalogueFile(dir, ScoringFile, &wf); err != nil {
		return nil, err
	}
	weights := WeightConfig{
		Weights:           wf.Weights,
		DefaultWeight:     DefaultWeight,
		PartialMultiplier: DefaultPartialMultiplier,
	}
	if wf.DefaultWeight != nil {
		weights.DefaultWeight = *wf.DefaultWeight
	}
	if wf.PartialMultiplier != nil {
		weights.PartialMultiplier = *wf.PartialMultiplier
	}

	remediation := make(map[string]string)
	if err := readCatalogueFile(dir, RemediationFile, &remediation); err != nil {
		return nil, err
	}

	var resources []ResourceEntry
	if err := readCatalogueFile(dir, ResourceMappingFile, &resources); err != nil {
		return nil, err
	}

	return NewCatalogue(reqs, weights, remediation, resources)
}

func readCatalogueFile(dir, base string, out interface{}) error {
	for _, ext := range catalogueExts {
		path := filepath.Join(dir, base+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}

		if ext == ".json" {
			err = json.Unmarshal(data, out)
		} else {
			err = yaml.Unmarshal(data, out)
		}
		if err != nil {
			return fmt.Errorf("%w: failed to parse %s: %v", ErrConfiguration, filepath.Base(path), err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s not found in %s", ErrConfiguration, base, dir)
}

// Requirements returns the requirements in catalogue order
func (c *Catalogue) Requirements() []Requirement {
	return append([]Requirement(nil), c.requirements...)
}

// IDs returns every requirement id in catalogue order
func (c *Catalogue) IDs() []string {
	ids := make([]string, len(c.requirements))
	for i, r := range c.requirements {
		ids[i] = r.ID
	}
	return ids
}

// Has reports whether id is a catalogue requirement
func (c *Catalogue) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Requirement looks up a requirement by id
func (c *Catalogue) Requirement(id string) (Requirement, bool) {
	i, ok := c.index[id]
	if !ok {
		return Requirement{}, false
	}
	return c.requirements[i], true
}

// Weights returns a copy of the scoring configuration
func (c *Catalogue) Weights() WeightConfig {
	w := c.weights
	w.Weights = make(map[string]int, len(c.weights.Weights))
	for id, v := range c.weights.Weights {
		w.Weights[id] = v
	}
	return w
}

// RemediationFor returns the remediation template for id, if any
func (c *Catalogue) RemediationFor(id string) (string, bool) {
	text, ok := c.remediation[id]
	return text, ok
}

// ResourcesFor returns every resource linked to id, in catalogue order
func (c *Catalogue) ResourcesFor(id string) []ResourceEntry {
	matched := []ResourceEntry{}
	for _, r := range c.resources {
		for _, linked := range r.LinkedRuleIDs {
			if linked == id {
				r.LinkedRuleIDs = append([]string(nil), r.LinkedRuleIDs...)
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}
