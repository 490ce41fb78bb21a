// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A File is an ordered collection of sections. The zero value is an empty file.
// Files can be read by multiple concurrent goroutines.
type File struct {
	sections         []section
	trailingComments []string
}

type section struct {
	name       string
	comments   []string
	properties []property
}

type property struct {
	comments []string
	key      string
	value    string
}

func (s *section) index(key string) int {
	for i := range s.properties {
		if s.properties[i].key == key {
			return i
		}
	}
	return -1
}

// ParseOptions holds optional parameters for Parse.
type ParseOptions struct {
	// NormalizeSection is called on each section name to apply text transformations.
	// This can be used to make section names case-insensitive, for instance.
	// If nil, no transformations are made.
	NormalizeSection func(name string) string

	// NormalizeKey is called on each key to apply text transformations.
	// This can be used to make keys case-insensitive, for instance.
	// If nil, no transformations are made.
	NormalizeKey func(section, key string) string

	// Strict makes a repeated section name or a repeated key within a
	// section a parse error.
	Strict bool
}

func (opts *ParseOptions) strict() bool {
	return opts != nil && opts.Strict
}

// Parse parses an INI file. Nil options are treated identically as passing the
// zero value. On error, Parse returns the properties read before the offending
// line along with the error.
//
// See the Syntax section in the package documentation for the format recognized
// by Parse.
func Parse(r io.Reader, opts *ParseOptions) (*File, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	f := new(File)
	curr := -1
	lineno := 1
	var comments []string
	// last points at the property that an indented line continues, if any.
	var last *property
	lastIndent := 0
	for ; s.Scan(); lineno++ {
		raw := s.Bytes()
		if last != nil {
			if cont, ok := continuation(raw, lastIndent); ok {
				last.value += "\n" + cont
				continue
			}
		}
		line, err := cleanLine(raw)
		if err != nil {
			return f, fmt.Errorf("parse ini file: line %d: %w", lineno, err)
		}
		if line == "" {
			last = nil
			continue
		}
		switch line[0] {
		case ';', '#':
			comments = append(comments, line)
		case '[':
			last = nil
			name := line[1 : len(line)-1]
			if opts != nil && opts.NormalizeSection != nil {
				name = opts.NormalizeSection(name)
			}
			if i := f.sectionIndex(name); i >= 0 {
				if opts.strict() {
					return f, fmt.Errorf("parse ini file: line %d: duplicate section %q", lineno, name)
				}
				curr = i
				f.sections[i].comments = append(f.sections[i].comments, comments...)
			} else {
				f.sections = append(f.sections, section{
					name:     name,
					comments: comments,
				})
				curr = len(f.sections) - 1
			}
			comments = nil
		default:
			if curr < 0 {
				return f, fmt.Errorf("parse ini file: line %d: property outside of a section", lineno)
			}
			currSection := &f.sections[curr]
			i := strings.IndexByte(line, '=')
			key := line[:i]
			if !IsValidKey(key) {
				return f, fmt.Errorf("parse ini file: line %d: invalid key %q", lineno, key)
			}
			if opts != nil && opts.NormalizeKey != nil {
				key = opts.NormalizeKey(currSection.name, key)
			}
			value := unquote(line[i+1:])
			j := currSection.index(key)
			if j >= 0 {
				if opts.strict() {
					return f, fmt.Errorf("parse ini file: line %d: duplicate key %q in section %q", lineno, key, currSection.name)
				}
				prop := &currSection.properties[j]
				prop.comments = append(prop.comments, comments...)
				prop.value = value
			} else {
				currSection.properties = append(currSection.properties, property{
					comments: comments,
					key:      key,
					value:    value,
				})
				j = len(currSection.properties) - 1
			}
			comments = nil
			last = &currSection.properties[j]
			lastIndent = indentation(raw)
			if strings.HasPrefix(line[i+1:], `"`) {
				// Quoted values are complete on their own line.
				last = nil
			}
		}
	}
	if err := s.Err(); err != nil {
		return f, fmt.Errorf("parse ini file: line %d: %w", lineno, err)
	}
	f.trailingComments = comments
	return f, nil
}

// continuation reports whether line continues the previous property's value:
// it must be indented deeper than the property and not be a comment. It
// returns the line's text without surrounding whitespace.
func continuation(line []byte, propIndent int) (string, bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] == '#' || trimmed[0] == ';' {
		return "", false
	}
	if indentation(line) <= propIndent {
		return "", false
	}
	return string(trimmed), true
}

func indentation(line []byte) int {
	return len(line) - len(bytes.TrimLeftFunc(line, unicode.IsSpace))
}

func unquote(v string) string {
	if !strings.HasPrefix(v, `"`) {
		return v
	}
	v = v[1 : len(v)-1]
	sb := new(strings.Builder)
	sb.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] != '\\' {
			sb.WriteByte(v[i])
			continue
		}
		i++
		switch v[i] {
		case 'r':
			sb.WriteByte('\r')
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'x':
			sb.WriteByte(fromHex(v[i+1])<<4 | fromHex(v[i+2]))
			i += 2
		case '"', '\\':
			sb.WriteByte(v[i])
		default:
			panic("unreachable")
		}
	}
	return sb.String()
}

// cleanLine trims a line and rewrites properties into "key=value" form so that
// the first '=' always separates the key from the value.
func cleanLine(line []byte) (string, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return "", nil
	}
	if line[0] == '#' || line[0] == ';' {
		// Comment
		val := new(strings.Builder)
		val.Grow(len(line))
		val.WriteByte(line[0])
		if comment := bytes.TrimSpace(line[1:]); len(comment) > 0 {
			val.WriteByte(' ')
			val.Write(comment)
		}
		return val.String(), nil
	}
	if line[0] == '[' {
		// Section name
		if line[len(line)-1] != ']' {
			return "", errors.New("missing section closing bracket")
		}
		name := bytes.TrimSpace(line[1 : len(line)-1])
		if len(name) == 0 {
			return "", errors.New("section name missing")
		}
		if bytes.ContainsAny(name, "[]") {
			return "", errors.New("unexpected brackets in section name")
		}
		return "[" + string(name) + "]", nil
	}
	// Property
	i := bytes.IndexAny(line, "=:")
	if i == -1 {
		return "", errors.New("could not find '=' or ':'")
	}
	k := bytes.TrimRightFunc(line[:i], unicode.IsSpace)
	v := bytes.TrimLeftFunc(line[i+1:], unicode.IsSpace)
	if bytes.HasPrefix(v, []byte{'"'}) {
		if err := validateQuotedString(v); err != nil {
			return "", err
		}
	}
	sb := new(strings.Builder)
	sb.Grow(len(k) + 1 + len(v))
	sb.Write(k)
	sb.WriteByte('=')
	sb.Write(v)
	return sb.String(), nil
}

func validateQuotedString(v []byte) error {
	if len(v) < 2 {
		return errors.New("unterminated string")
	}
	endsInQuote := bytes.HasSuffix(v, []byte{'"'})
	v = v[1 : len(v)-1]
	for i := 0; i < len(v); i++ {
		if v[i] == '"' {
			return errors.New("trailing characters after string")
		}
		if v[i] != '\\' {
			continue
		}
		if i+1 >= len(v) {
			return errors.New("unexpected end of string")
		}
		switch v[i+1] {
		case 'n', 'r', 't', '\\', '"':
			i++
		case 'x':
			if i+3 >= len(v) {
				return errors.New("unexpected end of string")
			}
			if !isHexDigit(v[i+2]) || !isHexDigit(v[i+3]) {
				return fmt.Errorf("bad hex escape %s", v[i:i+4])
			}
			i += 3
		default:
			return fmt.Errorf("unknown escape %q", v[i+1])
		}
	}
	if !endsInQuote {
		return errors.New("unterminated string")
	}
	return nil
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' ||
		'a' <= c && c <= 'f' ||
		'A' <= c && c <= 'F'
}

func fromHex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 0xa
	case 'A' <= c && c <= 'F':
		return c - 'A' + 0xa
	default:
		panic("invalid hex digit")
	}
}

func (f *File) sectionIndex(name string) int {
	if f == nil {
		return -1
	}
	for i := range f.sections {
		if f.sections[i].name == name {
			return i
		}
	}
	return -1
}

// Get returns the value associated with the given key in the given section.
// If the section or the key does not exist, Get returns the empty string.
func (f *File) Get(section, key string) string {
	v, _ := f.Lookup(section, key)
	return v
}

// Lookup returns the value associated with the given key in the given section
// and whether it was found. A missing section and a missing key are reported
// the same way.
func (f *File) Lookup(section, key string) (_ string, ok bool) {
	i := f.sectionIndex(section)
	if i < 0 {
		return "", false
	}
	s := &f.sections[i]
	j := s.index(key)
	if j < 0 {
		return "", false
	}
	return s.properties[j].value, true
}

// Sections returns the names of the sections in file order, including
// sections that have no properties.
func (f *File) Sections() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.sections))
	for _, s := range f.sections {
		names = append(names, s.name)
	}
	return names
}

// HasSection reports whether f has a section with the given name.
func (f *File) HasSection(name string) bool {
	return f.sectionIndex(name) >= 0
}

// Section returns a copy of the properties in the named section in file order.
// It returns nil if the section does not exist.
func (f *File) Section(name string) Section {
	i := f.sectionIndex(name)
	if i < 0 {
		return nil
	}
	props := f.sections[i].properties
	result := make(Section, 0, len(props))
	for _, prop := range props {
		result = append(result, Property{Key: prop.key, Value: prop.value})
	}
	return result
}

// AddSection appends an empty section with the given name to the end of the
// file. It reports false if the section already exists. AddSection will panic
// if IsValidSection(name) reports false.
func (f *File) AddSection(name string) bool {
	if !IsValidSection(name) {
		panic("File.AddSection invalid section: " + name)
	}
	if f.HasSection(name) {
		return false
	}
	f.sections = append(f.sections, section{name: name})
	return true
}

// Set sets the property to the given value. Set will panic if
// IsValidSection(sectionName) or IsValidKey(key) report false.
//
// If the section already has a property with the given key, then its value is
// replaced and it keeps its position. Otherwise, the property is appended to
// the section, creating the section at the end of the file if necessary.
func (f *File) Set(sectionName, key, value string) {
	if !IsValidSection(sectionName) {
		panic("File.Set invalid section: " + sectionName)
	}
	if !IsValidKey(key) {
		panic("File.Set invalid key: " + key)
	}
	i := f.sectionIndex(sectionName)
	if i < 0 {
		f.sections = append(f.sections, section{name: sectionName})
		i = len(f.sections) - 1
	}
	s := &f.sections[i]
	if j := s.index(key); j >= 0 {
		s.properties[j].value = value
		return
	}
	s.properties = append(s.properties, property{
		key:   key,
		value: value,
	})
}

// Delete removes the property with the given key from the named section along
// with its comments. The section is kept even if it becomes empty. Delete
// reports whether a property was removed.
func (f *File) Delete(sectionName, key string) bool {
	i := f.sectionIndex(sectionName)
	if i < 0 {
		return false
	}
	s := &f.sections[i]
	j := s.index(key)
	if j < 0 {
		return false
	}
	copy(s.properties[j:], s.properties[j+1:])
	// Zero out truncated element for garbage collection.
	s.properties[len(s.properties)-1] = property{}
	s.properties = s.properties[:len(s.properties)-1]
	return true
}

// DeleteSection removes the named section, its properties, and its comments.
// It reports whether the section existed.
func (f *File) DeleteSection(name string) bool {
	i := f.sectionIndex(name)
	if i < 0 {
		return false
	}
	copy(f.sections[i:], f.sections[i+1:])
	// Zero out truncated element for garbage collection.
	f.sections[len(f.sections)-1] = section{}
	f.sections = f.sections[:len(f.sections)-1]
	return true
}

// MarshalText serializes the file in INI format, including comments from the
// original file. Sections are separated by a blank line.
func (f *File) MarshalText() ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	var buf []byte
	for _, s := range f.sections {
		if len(buf) > 0 {
			buf = append(buf, '\n')
		}
		for _, comment := range s.comments {
			buf = append(buf, comment...)
			buf = append(buf, '\n')
		}
		buf = append(buf, '[')
		buf = append(buf, s.name...)
		buf = append(buf, "]\n"...)
		for _, prop := range s.properties {
			for _, comment := range prop.comments {
				buf = append(buf, comment...)
				buf = append(buf, '\n')
			}
			buf = append(buf, prop.key...)
			if prop.value == "" {
				buf = append(buf, " ="...)
			} else {
				buf = append(buf, " = "...)
			}
			if shouldQuoteValue(prop.value) {
				buf = appendQuotedString(buf, prop.value)
			} else {
				buf = append(buf, prop.value...)
			}
			buf = append(buf, '\n')
		}
	}
	if len(f.trailingComments) > 0 && len(buf) > 0 {
		buf = append(buf, '\n')
	}
	for _, comment := range f.trailingComments {
		buf = append(buf, comment...)
		buf = append(buf, '\n')
	}
	return buf, nil
}

func appendQuotedString(dst []byte, v string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '"':
			dst = append(dst, '\\', '"')
		case c < ' ' || c == del:
			const hexDigits = "0123456789abcdef"
			dst = append(dst, '\\', 'x', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			dst = append(dst, c)
		}
	}
	dst = append(dst, '"')
	return dst
}

const del = '\x7f'

func shouldQuoteValue(v string) bool {
	if strings.TrimSpace(v) != v {
		return true
	}
	for _, c := range v {
		if c == '"' || (c < ' ' || c == del) {
			return true
		}
	}
	return false
}

// UnmarshalText parses the INI data with default options, replacing any
// properties or sections in f.
func (f *File) UnmarshalText(data []byte) error {
	parsed, err := Parse(bytes.NewReader(data), nil)
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// A Property is a single key-value pair in a section.
type Property struct {
	Key   string
	Value string
}

// A Section is the ordered list of properties in a section. Keys are unique.
type Section []Property

// Lookup returns the value associated with the given key and whether it was
// found.
func (sect Section) Lookup(key string) (_ string, ok bool) {
	for _, prop := range sect {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return "", false
}

// Get returns the value associated with the given key. If there is no such
// key, Get returns the empty string.
func (sect Section) Get(key string) string {
	v, _ := sect.Lookup(key)
	return v
}

// Map returns the section's properties as a map.
func (sect Section) Map() map[string]string {
	m := make(map[string]string, len(sect))
	for _, prop := range sect {
		m[prop.Key] = prop.Value
	}
	return m
}

// IsValidSection reports whether a string can be used as a section name in
// an INI file.
func IsValidSection(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	last, _ := utf8.DecodeLastRuneInString(name)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	return !strings.ContainsAny(name, "[]\r\n")
}

// IsValidKey reports whether a string can be used as a property key in
// an INI file.
func IsValidKey(key string) bool {
	if key == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(key)
	last, _ := utf8.DecodeLastRuneInString(key)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	if first == '[' || first == ']' {
		return false
	}
	return !strings.ContainsAny(key, ";#=:\r\n")
}
