// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package configstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"zombiezen.com/go/log"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// Save writes the store to its path, creating the parent directory if
// needed. The file is replaced as a whole: the new contents are written to a
// temporary file in the same directory and renamed over the old one, which
// keeps its permission bits. Save does not modify the in-memory state.
func (s *Store) Save(ctx context.Context) error {
	if err := s.save(); err != nil {
		log.Errorf(ctx, "Error saving configuration file %s: %v", s.path, err)
		return fmt.Errorf("save config %s: %w", s.path, err)
	}
	log.Infof(ctx, "Configuration saved to: %s", s.path)
	return nil
}

func (s *Store) save() error {
	data, err := s.file.MarshalText()
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}
	mode := fileMode
	if info, err := os.Stat(s.path); err == nil {
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", s.path)
		}
		mode = info.Mode().Perm()
	}
	return writeFileAtomic(dir, s.path, data, mode)
}

// writeFileAtomic writes data to a new temporary file in dir and renames it
// to path. The temporary file is removed on failure.
func writeFileAtomic(dir, path string, data []byte, mode os.FileMode) (err error) {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
