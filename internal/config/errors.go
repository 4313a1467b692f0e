package config

import "errors"

// ErrConfigType indicates a value of an unsupported kind was handed to a
// typed parser.
var ErrConfigType = errors.New("config: unsupported value type")
