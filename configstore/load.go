// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package configstore

import (
	"context"
	"fmt"
	"os"

	"github.com/yourbase/iniconfig/envvar"
	"github.com/yourbase/iniconfig/ini"
	"zombiezen.com/go/log"
)

// LoadState describes what Load found at the store's path.
type LoadState int

// Load states.
const (
	// Loaded means the file was read and parsed.
	Loaded LoadState = iota
	// NotFound means no file exists at the path. The store starts empty.
	NotFound
	// Malformed means the file could not be parsed. The store starts empty.
	Malformed
	// Unreadable means the file exists but could not be read. The store
	// starts empty.
	Unreadable
)

func (state LoadState) String() string {
	switch state {
	case Loaded:
		return "loaded"
	case NotFound:
		return "not found"
	case Malformed:
		return "malformed"
	case Unreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("LoadState(%d)", int(state))
	}
}

// LoadResult reports the outcome of Load.
type LoadResult struct {
	State LoadState
	// Err is the parse or read error for Malformed and Unreadable.
	Err error
}

// OK reports whether the store reflects the file on disk, either because it
// was loaded or because there was no file to load.
func (r LoadResult) OK() bool {
	return r.State == Loaded || r.State == NotFound
}

// Options holds optional parameters for Load.
type Options struct {
	// Strict rejects files with repeated section names or repeated keys
	// within a section. Such files load as Malformed.
	Strict bool
}

// DefaultOptions returns the options selected by the environment.
func DefaultOptions() *Options {
	return &Options{Strict: envvar.Strict()}
}

// Open loads the configuration file at path, falling back to an empty store
// if it is missing or cannot be read. An empty path means envvar.ConfigPath().
// Options come from DefaultOptions.
func Open(ctx context.Context, path string) *Store {
	s, _ := Load(ctx, path, nil)
	return s
}

// Load loads the configuration file at path. It always returns a usable
// Store; the LoadResult says whether the store holds the file's contents or
// started empty and why. An empty path means envvar.ConfigPath(). Nil options
// are treated as DefaultOptions().
func Load(ctx context.Context, path string, opts *Options) (*Store, LoadResult) {
	if path == "" {
		path = envvar.ConfigPath()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	s := &Store{
		path: path,
		file: new(ini.File),
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Infof(ctx, "Configuration file %s does not exist; starting empty", path)
		return s, LoadResult{State: NotFound}
	}
	if err == nil {
		var info os.FileInfo
		if info, err = f.Stat(); err == nil && info.IsDir() {
			err = fmt.Errorf("%s is a directory", path)
		}
		if err != nil {
			f.Close()
		}
	}
	if err != nil {
		log.Warnf(ctx, "Error loading configuration file %s (starting empty): %v", path, err)
		return s, LoadResult{State: Unreadable, Err: fmt.Errorf("load config: %w", err)}
	}
	parsed, err := ini.Parse(f, &ini.ParseOptions{Strict: opts.Strict})
	f.Close() // Close errors irrelevant.
	if err != nil {
		log.Warnf(ctx, "Error loading configuration file %s (starting empty): %v", path, err)
		return s, LoadResult{State: Malformed, Err: fmt.Errorf("load config %s: %w", path, err)}
	}
	s.file = parsed
	log.Infof(ctx, "Configuration loaded from: %s", path)
	return s, LoadResult{State: Loaded}
}
