// Package defaults provides an embedded copy of the default
// configuration file for the fitcoach init subcommand.
package defaults

import _ "embed"

//go:generate sh -c "cp ../../examples/config.example.yaml ."

//go:embed config.example.yaml
var ConfigYAML []byte
