package ruleset

// yamlNeedle is the intermediate struct for parsing a single needle from
// YAML. Exactly one of Replace or Elide must be set.
type yamlNeedle struct {
	Pattern string  `yaml:"pattern"`
	Replace *string `yaml:"replace,omitempty"`
	Elide   bool    `yaml:"elide,omitempty"`
}

// yamlNeedleSetFile is the top-level shape of a single needle-set file.
type yamlNeedleSetFile struct {
	Name    string       `yaml:"name,omitempty"`
	Needles []yamlNeedle `yaml:"needles"`
}
