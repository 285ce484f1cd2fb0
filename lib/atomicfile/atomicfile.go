// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile writes files so that readers see either the old
// content or the complete new content, never a partial write.
//
// Content goes to a temporary file in the destination's directory,
// which is fsynced, closed and renamed into place; the parent
// directory is then fsynced so the rename survives power loss. A
// [File] that is not committed is removed by Abort, which callers
// defer immediately after [Create]:
//
//	file, err := atomicfile.Create(path, 0o600)
//	if err != nil {
//		return err
//	}
//	defer file.Abort()
//	if _, err := file.Write(data); err != nil {
//		return err
//	}
//	return file.Commit()
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrFinished is returned when writing to or committing a File that
// has already been committed or aborted.
var ErrFinished = errors.New("atomicfile: file already committed or aborted")

// File is a pending replacement for the file at Path.
type File struct {
	path     string
	perm     os.FileMode
	file     *os.File
	finished bool
}

// Create opens a temporary file next to path. The parent directory
// must exist. Nothing appears at path until Commit.
func Create(path string, perm os.FileMode) (*File, error) {
	directory, base := filepath.Split(path)
	if directory == "" {
		directory = "."
	}
	file, err := os.CreateTemp(directory, "."+base+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	return &File{path: path, perm: perm, file: file}, nil
}

// Path returns the destination path.
func (f *File) Path() string {
	return f.path
}

// TempPath returns the path of the temporary file.
func (f *File) TempPath() string {
	return f.file.Name()
}

// Write appends to the temporary file.
func (f *File) Write(data []byte) (int, error) {
	if f.finished {
		return 0, ErrFinished
	}
	return f.file.Write(data)
}

// Commit syncs and closes the temporary file and renames it to the
// destination, replacing any existing file. On failure the temporary
// file is removed and the destination is untouched.
func (f *File) Commit() error {
	if f.finished {
		return ErrFinished
	}
	f.finished = true
	temporaryPath := f.file.Name()

	// Sync, chmod, close, rename: in that order. Any failure removes
	// the temporary file and reports the first error.
	if err := f.file.Sync(); err != nil {
		f.file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing %s: %w", temporaryPath, err)
	}
	if err := f.file.Chmod(f.perm); err != nil {
		f.file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("setting mode on %s: %w", temporaryPath, err)
	}
	if err := f.file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, f.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming %s into place: %w", f.path, err)
	}

	SyncDir(filepath.Dir(f.path))
	return nil
}

// Abort discards the temporary file. It is a no-op after Commit or a
// previous Abort, so it is safe to defer unconditionally.
func (f *File) Abort() {
	if f.finished {
		return
	}
	f.finished = true
	f.file.Close()
	os.Remove(f.file.Name())
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	file, err := Create(path, perm)
	if err != nil {
		return err
	}
	defer file.Abort()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", file.TempPath(), err)
	}
	return file.Commit()
}

// SyncDir fsyncs a directory so a preceding rename or removal in it
// is durable. Errors are ignored: not every filesystem supports
// syncing directories.
func SyncDir(directory string) {
	handle, err := os.Open(directory)
	if err != nil {
		return
	}
	handle.Sync()
	handle.Close()
}
