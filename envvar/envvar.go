// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package envvar provides functions to read environment variables for
// configuration.
package envvar

import (
	"os"
	"strconv"
)

// Environment variables consulted for configuration store defaults.
const (
	PathVar   = "INICONFIG_PATH"
	StrictVar = "INICONFIG_STRICT"
)

// DefaultPath is the configuration file used when neither the caller nor the
// environment names one.
const DefaultPath = "config.ini"

// Get returns the value of the given environment variable. If it is empty or
// unset, it returns the default value.
func Get(key string, defaultValue string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	return v
}

// Bool returns the value of a boolean environment variable. If it is unset or
// cannot be parsed by strconv.ParseBool, then it returns the default value.
func Bool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

// ConfigPath returns the configuration file path named by INICONFIG_PATH,
// or DefaultPath.
func ConfigPath() string {
	return Get(PathVar, DefaultPath)
}

// Strict reports whether INICONFIG_STRICT asks for strict parsing.
func Strict() bool {
	return Bool(StrictVar, false)
}
