// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package envvar

import (
	"os"
	"testing"
)

func TestConfigPath(t *testing.T) {
	t.Run("Unset", func(t *testing.T) {
		unsetenv(t, PathVar)
		if got := ConfigPath(); got != DefaultPath {
			t.Errorf("ConfigPath() = %q; want %q", got, DefaultPath)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		t.Setenv(PathVar, "")
		if got := ConfigPath(); got != DefaultPath {
			t.Errorf("ConfigPath() = %q; want %q", got, DefaultPath)
		}
	})
	t.Run("Set", func(t *testing.T) {
		const want = "/etc/myapp/settings.ini"
		t.Setenv(PathVar, want)
		if got := ConfigPath(); got != want {
			t.Errorf("ConfigPath() = %q; want %q", got, want)
		}
	})
}

func TestBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"", false, false},
		{"", true, true},
		{"1", false, true},
		{"true", false, true},
		{"False", true, false},
		{"0", true, false},
		{"bork", true, true},
		{"bork", false, false},
	}
	for _, test := range tests {
		t.Setenv(StrictVar, test.value)
		if got := Bool(StrictVar, test.defaultValue); got != test.want {
			t.Errorf("with %s=%q, Bool(%q, %t) = %t; want %t", StrictVar, test.value, StrictVar, test.defaultValue, got, test.want)
		}
	}
}

func TestStrict(t *testing.T) {
	t.Setenv(StrictVar, "yes")
	if Strict() {
		t.Errorf("with %s=yes, Strict() = true; want false", StrictVar)
	}
	t.Setenv(StrictVar, "t")
	if !Strict() {
		t.Errorf("with %s=t, Strict() = false; want true", StrictVar)
	}
}

// unsetenv removes an environment variable for the duration of the test.
func unsetenv(tb testing.TB, key string) {
	tb.Helper()
	old, ok := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		tb.Fatal(err)
	}
	if ok {
		tb.Cleanup(func() { os.Setenv(key, old) })
	}
}
