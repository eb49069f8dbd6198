// Package config holds the immutable run configuration for placescout.
//
// Configuration is assembled once at startup from three sources, in
// increasing precedence: built-in defaults, the optional .placescout YAML
// file, and CLI flags. The API key is read from the environment (optionally
// via a .env file) and never from flags, so it cannot leak into shell
// history.
//
// The resulting Config is passed into constructors explicitly; no component
// reads ambient global state after startup.
package config
