// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini provides a parser and serializer for sectioned INI configuration
files. See https://en.wikipedia.org/wiki/INI_file.

This package is specifically designed for read-modify-write scenarios: it
preserves comments, keeps sections and keys in file order, and edits existing
values in-place.

Syntax

An INI file is Unicode text encoded in UTF-8. The text is not canonicalized.

An INI file consists of zero or more sections. A section is started by writing
its name in square brackets ('[' and ']') on its own line and ends at the next
section name or the end of file. Each section holds zero or more properties. A
property is a key and value written on a single line, separated by an equals
sign ('=') or a colon (':'), whichever comes first:

	[database]
	host = localhost
	port: 5432

Properties encountered before any section name are an error. Keys are not
allowed to contain semicolons (';'), hashes ('#'), equals signs ('='), or
colons (':'), or to start with a square bracket ('[' or ']'). Values may be
surrounded by double quotes ('"') to express values that begin or end with
whitespace or to use C-style escape sequences. Supported escape sequences:

	\n    U+000A line feed or newline
	\r    U+000D carriage return
	\t    U+0009 horizontal tab
	\\    U+005C backslash
	\"    U+0022 double quote
	\xFF  hex escape

Whitespace (characters with the Unicode White Space property) at the
beginning or end of lines, around section names, around property keys, and
around property values are ignored. If the first non-whitespace character in
a line is a semicolon (';') or a hash ('#'), then the line is treated as a
comment. Inline comments are not supported.

A line indented deeper than the property before it continues that property's
value on a new line, as Python's configparser writes multi-line values:

	[motd]
	text = first line
	    second line

A blank line, a section name, or a line indented no deeper than the property
ends the value. Comment lines are skipped without ending it. Quoted values
cannot be continued, and MarshalText writes multi-line values quoted with
\n escapes.

Section names and keys are case-sensitive unless ParseOptions says otherwise.

Repeated names

By default, a section name that appears more than once is treated as if its
properties were presented contiguously in its first occurrence, and a key that
appears more than once in a section keeps its first position with the last
value. Setting ParseOptions.Strict turns both cases into parse errors.
*/
package ini
