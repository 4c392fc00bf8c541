package unitdb

import "gopkg.in/yaml.v3"

// CustomUnitSpec is one caller-supplied unit definition: the same
// singular/plural/definition triple the built-in mini-DSL uses (spec.md
// §4.5 step 4), expressed as YAML so the core can accept structured custom
// units without depending on any specific config *file* format (that
// remains the CLI's TOML-loading concern, out of scope per spec.md §1).
type CustomUnitSpec struct {
	Singular   string `yaml:"singular"`
	Plural     string `yaml:"plural"`
	Definition string `yaml:"definition"`
}

// ParseCustomUnitsYAML decodes a YAML document of the form:
//
//	- singular: smoot
//	  plural: smoots
//	  definition: "1.702 m"
func ParseCustomUnitsYAML(doc []byte) ([]CustomUnitSpec, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	var specs []CustomUnitSpec
	if err := yaml.Unmarshal(doc, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// AddCustom registers caller-supplied unit definitions into the database,
// resolved lazily like any other entry.
func (db *Database) AddCustom(specs []CustomUnitSpec) {
	for _, s := range specs {
		plural := s.Plural
		if plural == "" {
			plural = s.Singular
		}
		db.all = append(db.all, def{Singular: s.Singular, Plural: plural, Body: s.Definition})
	}
}
