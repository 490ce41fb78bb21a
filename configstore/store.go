// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package configstore

import (
	"context"
	"encoding"
	"fmt"
	"reflect"

	"github.com/yourbase/iniconfig/ini"
	"zombiezen.com/go/log"
)

// A Store is an in-memory configuration document backed by a single file.
// Use Open or Load to create one.
type Store struct {
	path string
	file *ini.File
}

// Path returns the file the store loads from and saves to.
func (s *Store) Path() string {
	return s.path
}

// Set sets key in section to the string form of value, creating the section
// at the end of the document if it does not exist. An existing key keeps its
// position. The string form is taken from encoding.TextMarshaler, then
// fmt.Stringer, then fmt.Sprint. A nil pointer is stored as "<nil>".
//
// Set returns an error only if the section or key name is not usable in an
// INI file or if marshaling the value fails. The store is unchanged on error.
func (s *Store) Set(ctx context.Context, section, key string, value interface{}) error {
	if !ini.IsValidSection(section) {
		return fmt.Errorf("set config key: invalid section name %q", section)
	}
	if !ini.IsValidKey(key) {
		return fmt.Errorf("set config key [%s]%s: invalid key name", section, key)
	}
	v, err := stringify(value)
	if err != nil {
		return fmt.Errorf("set config key [%s]%s: %w", section, key, err)
	}
	if s.file.AddSection(section) {
		log.Infof(ctx, "Created new section: [%s]", section)
	}
	s.file.Set(section, key, v)
	log.Infof(ctx, "Added/Updated key: [%s]%s = %s", section, key, v)
	return nil
}

func stringify(value interface{}) (string, error) {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return fmt.Sprint(value), nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	case fmt.Stringer:
		return fmt.Sprint(v), nil
	default:
		return fmt.Sprint(value), nil
	}
}

// Get returns the value of key in section, or defaultValue if either the
// section or the key does not exist.
func (s *Store) Get(ctx context.Context, section, key, defaultValue string) string {
	v, ok := s.file.Lookup(section, key)
	if !ok {
		log.Warnf(ctx, "Key %q not found in section %q; using default value", key, section)
		return defaultValue
	}
	return v
}

// Lookup returns the value of key in section and whether it was found.
// A missing section and a missing key are reported the same way.
func (s *Store) Lookup(section, key string) (string, bool) {
	return s.file.Lookup(section, key)
}

// Section returns a copy of the properties in section, in order. Modifying
// the result does not change the store. If the section does not exist,
// Section returns an empty Section.
func (s *Store) Section(ctx context.Context, section string) ini.Section {
	props := s.file.Section(section)
	if props == nil {
		log.Warnf(ctx, "Section %q not found", section)
		return ini.Section{}
	}
	return props
}

// Sections returns the section names in document order.
func (s *Store) Sections() []string {
	return s.file.Sections()
}

// HasSection reports whether the store has a section with the given name.
func (s *Store) HasSection(section string) bool {
	return s.file.HasSection(section)
}

// RemoveKey removes key from section and reports whether it was present.
// The section is kept even if it becomes empty.
func (s *Store) RemoveKey(ctx context.Context, section, key string) bool {
	if !s.file.Delete(section, key) {
		log.Warnf(ctx, "Key %q not found in section %q; cannot remove", key, section)
		return false
	}
	log.Infof(ctx, "Removed key: [%s]%s", section, key)
	return true
}

// RemoveSection removes section and all of its keys and reports whether it
// was present.
func (s *Store) RemoveSection(ctx context.Context, section string) bool {
	if !s.file.DeleteSection(section) {
		log.Warnf(ctx, "Section %q not found; cannot remove", section)
		return false
	}
	log.Infof(ctx, "Removed section: [%s]", section)
	return true
}

// MarshalText serializes the store's current state in INI format.
func (s *Store) MarshalText() ([]byte, error) {
	return s.file.MarshalText()
}
