// Package config loads the navrank configuration file.
//
// Configuration comes from a single YAML file named by the --config flag
// or the NAVRANK_CONFIG environment variable. There is no automatic
// discovery. Values not present in the file keep the values of Default.
//
// Example:
//
//	tree: ${HOME}/.config/navrank/tree.jsonc
//	strategy: hybrid
//	threshold: 0.2
//	weights:
//	  label: 2
//	log:
//	  level: debug
//	  format: json
package config
