// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package configstore keeps a sectioned INI configuration file in memory and
writes it back on demand.

A Store is bound to one file path for its whole life. Loading is fail-soft: a
missing, unreadable, or malformed file produces an empty Store, and the
accompanying LoadResult tells the caller which of those happened. Changes made
through Set, RemoveKey, and RemoveSection stay in memory until Save replaces
the file.

All values are stored as strings. Callers convert them to other types
themselves.

A Store is not safe for concurrent use, and nothing coordinates two processes
editing the same file: the last Save wins.
*/
package configstore
