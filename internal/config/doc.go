// Package config holds the settings of an audit run.
//
// Settings come from three layers, later layers winning: the defaults of
// NewConfig, an optional YAML file (.inventoryaudit), and command-line
// flags. Secrets such as the site-scanning API key are read from the
// environment only and are never written to the configuration file.
package config
