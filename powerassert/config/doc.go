// Package config holds the settings that shape a diagnostic: value formatting
// limits, hint detectors to skip, and logging.
//
// Settings come from defaults, then an optional YAML file, then environment
// variables:
//
//	max_value_length: 120
//	max_depth: 4
//	disabled_hints: [float-equality]
//	log:
//	  level: debug
//	  environment: local
package config
