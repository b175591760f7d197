// Package factory builds pluggable modules, such as metrics sinks, from the
// `{type, conf}` entries of the configuration file.
package factory
