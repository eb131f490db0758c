package constants

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Constants Table `yaml:"constants"`
}

// LoadFile reads a constants table from a YAML file of the form
//
//	constants:
//	  - type: fringe
//	    description: Local 3
//	    value: "8.50"
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "constants: read %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML constants document.
func Parse(data []byte) (Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "constants: parse yaml")
	}
	return f.Constants, nil
}
