package config

import "errors"

// Sentinel error kinds for this package, for errors.Is from callers.
var (
	ErrInvalid = errors.New("invalid config")
	ErrLoad    = errors.New("load config failed")
)
