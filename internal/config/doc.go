// Package config defines controller settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the gateway listen address, the hand driver address
// and the control loop timing parameters.
package config
