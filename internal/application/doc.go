// Package application provides application initialization and dependency wiring.
// It connects the settings store, the federation metadata resolver, metrics and
// the admin HTTP API, keeping the main package focused on CLI parsing and
// signal handling.
package application
