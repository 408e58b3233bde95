// Package config defines the unit settings used by the daemon and the
// command-line tools and provides helpers to load, validate and save them
// in YAML format.
//
// Validate fills defaults for everything left empty, so a minimal file only
// needs the values that differ from the stock GPAD hardware.
package config
