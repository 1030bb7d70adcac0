package config

import (
	"io"
	"time"
)

// Config defines the configuration lookups the bot relies on.
//
// Implementations should return the zero value (or a registered default) when
// a key is missing or cannot be converted to the requested type.
type Config interface {
	io.Closer

	// GetSecond retrieves the value associated with the given key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetInt retrieves the value associated with the given key as an int.
	GetInt(key string) int

	// GetUint retrieves the value associated with the given key as a uint.
	GetUint(key string) uint

	// GetUint64 retrieves the value associated with the given key as a uint64.
	GetUint64(key string) uint64

	// GetFloat64 retrieves the value associated with the given key as a float64.
	GetFloat64(key string) float64

	// GetBool retrieves the value associated with the given key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with the given key as a string.
	GetString(key string) string

	// GetArray retrieves the value associated with the given key as a slice of strings.
	// Configuration value is stored with format <element1>,<element2>,...
	// Elements are trimmed and empty elements are dropped.
	GetArray(key string) []string

	// IsSet reports whether key has a value from the file, the environment or
	// a registered default.
	IsSet(key string) bool
}
