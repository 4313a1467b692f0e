// Package config exposes the process-wide settings of the service. Every
// setting is read from an environment variable, falls back to a documented
// default when the variable is absent or empty, and is parsed into its
// declared type. A Store holds one snapshot of all settings plus the
// discovered version string and can be reloaded from the environment.
package config
