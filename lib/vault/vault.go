// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/encryptify/encryptify/lib/atomicfile"
	"github.com/encryptify/encryptify/lib/catalog"
	"github.com/encryptify/encryptify/lib/clock"
	"github.com/encryptify/encryptify/lib/digest"
	"github.com/encryptify/encryptify/lib/envelope"
	"github.com/encryptify/encryptify/lib/huffman"
	"github.com/encryptify/encryptify/lib/secret"
)

const (
	// DefaultIndexFile is the catalog file name under the root.
	DefaultIndexFile = "vault_index.json"

	// DefaultDataDir is the envelope directory name under the root.
	DefaultDataDir = "vault_data"

	// ExtractPrefix is prepended to the base name of extracted files.
	ExtractPrefix = "extracted_"
)

var (
	// ErrNotFound reports a name missing from the catalog, or an entry
	// whose envelope file is gone.
	ErrNotFound = errors.New("vault: not found")

	// ErrChecksumMismatch reports plaintext that decrypted and
	// decompressed cleanly but does not match the checksum recorded
	// when it was added.
	ErrChecksumMismatch = errors.New("vault: checksum mismatch")
)

// CompressionMode selects when Add compresses a file.
type CompressionMode string

const (
	// CompressionAuto compresses unless the container would not be
	// smaller than the file.
	CompressionAuto CompressionMode = "auto"
	// CompressionAlways compresses every non-empty file.
	CompressionAlways CompressionMode = "always"
	// CompressionNever stores every file uncompressed.
	CompressionNever CompressionMode = "never"
)

// ParseCompressionMode validates a mode name. The empty string means
// CompressionAuto.
func ParseCompressionMode(text string) (CompressionMode, error) {
	switch mode := CompressionMode(strings.ToLower(strings.TrimSpace(text))); mode {
	case "":
		return CompressionAuto, nil
	case CompressionAuto, CompressionAlways, CompressionNever:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown compression mode %q (expected auto, always, or never)", text)
	}
}

// Options configures a Vault.
type Options struct {
	// Root is the vault directory. Required; created if missing.
	Root string

	// IndexPath is the catalog file. Defaults to Root/vault_index.json.
	IndexPath string

	// DataDir holds the envelopes. Defaults to Root/vault_data.
	DataDir string

	// Compression defaults to CompressionAuto.
	Compression CompressionMode

	// Codec encrypts and decrypts envelopes. Defaults to envelope.New().
	Codec *envelope.Codec

	// Clock stamps new entries. Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to a logger that discards everything.
	Logger *slog.Logger
}

// Vault is an open vault directory. Not safe for concurrent use, and
// not safe for concurrent use of the same root by several processes.
type Vault struct {
	indexPath   string
	dataDir     string
	compression CompressionMode
	codec       *envelope.Codec
	clock       clock.Clock
	logger      *slog.Logger
	catalog     *catalog.Catalog
}

// Open prepares the vault directories and loads the catalog.
func Open(options Options) (*Vault, error) {
	if options.Root == "" {
		return nil, fmt.Errorf("vault: root directory is required")
	}
	if options.IndexPath == "" {
		options.IndexPath = filepath.Join(options.Root, DefaultIndexFile)
	}
	if options.DataDir == "" {
		options.DataDir = filepath.Join(options.Root, DefaultDataDir)
	}
	compression, err := ParseCompressionMode(string(options.Compression))
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	if options.Codec == nil {
		options.Codec = envelope.New()
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	for _, directory := range []string{options.Root, options.DataDir, filepath.Dir(options.IndexPath)} {
		if err := os.MkdirAll(directory, 0o700); err != nil {
			return nil, fmt.Errorf("vault: creating %s: %w", directory, err)
		}
	}

	index, err := catalog.Load(options.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	return &Vault{
		indexPath:   options.IndexPath,
		dataDir:     options.DataDir,
		compression: compression,
		codec:       options.Codec,
		clock:       options.Clock,
		logger:      options.Logger,
		catalog:     index,
	}, nil
}

// IndexPath returns the catalog file path.
func (v *Vault) IndexPath() string { return v.indexPath }

// DataDir returns the envelope directory.
func (v *Vault) DataDir() string { return v.dataDir }

// List returns all entries sorted by name.
func (v *Vault) List() []catalog.Entry {
	return v.catalog.Entries()
}

// Get returns the entry stored under name.
func (v *Vault) Get(name string) (catalog.Entry, bool) {
	return v.catalog.Get(name)
}

func (v *Vault) dataPath(id string) string {
	return filepath.Join(v.dataDir, id)
}

// Checksum returns the hex BLAKE3-256 digest recorded for data.
func Checksum(data []byte) string {
	return digest.Sum(data).String()
}

// Add stores the file at sourcePath under its path as given. See AddAs.
func (v *Vault) Add(sourcePath string, password *secret.Buffer) (catalog.Entry, error) {
	return v.AddAs(sourcePath, sourcePath, password)
}

// AddAs encrypts the file at sourcePath and records it under name,
// replacing any entry already stored under that name. The envelope is
// committed before the catalog is saved; if the save fails the
// envelope is removed again and the catalog is unchanged on disk.
func (v *Vault) AddAs(name, sourcePath string, password *secret.Buffer) (catalog.Entry, error) {
	if name == "" {
		return catalog.Entry{}, fmt.Errorf("vault: empty name")
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("reading %s: %w", sourcePath, err)
	}
	defer secret.Zero(data)

	payload, compressed, err := v.prepare(data)
	if err != nil {
		return catalog.Entry{}, err
	}

	id := v.newID()
	storedSize, err := v.writeEnvelope(id, payload, password)
	if err != nil {
		return catalog.Entry{}, err
	}

	entry := catalog.Entry{
		Name:         name,
		ID:           id,
		Compressed:   compressed,
		OriginalSize: int64(len(data)),
		StoredSize:   storedSize,
		Checksum:     Checksum(data),
		AddedAt:      v.clock.Now(),
	}
	previous, replaced, err := v.catalog.Put(entry)
	if err != nil {
		v.removeData(id)
		return catalog.Entry{}, err
	}
	if err := v.catalog.Save(); err != nil {
		if replaced {
			v.catalog.Put(previous)
		} else {
			v.catalog.Delete(name)
		}
		v.removeData(id)
		return catalog.Entry{}, err
	}

	if replaced {
		v.removeData(previous.ID)
	}
	v.logger.Info("file added",
		"name", name,
		"id", id,
		"compressed", compressed,
		"original_size", entry.OriginalSize,
		"stored_size", storedSize,
		"replaced", replaced,
	)
	return entry, nil
}

// prepare applies the compression policy and returns the bytes to
// encrypt.
func (v *Vault) prepare(data []byte) ([]byte, bool, error) {
	if v.compression == CompressionNever || len(data) == 0 {
		return data, false, nil
	}

	container, err := huffman.CompressBytes(data)
	if err != nil {
		return nil, false, fmt.Errorf("compressing: %w", err)
	}
	if v.compression == CompressionAuto && len(container) >= len(data) {
		v.logger.Debug("compression not effective, storing uncompressed",
			"original_size", len(data),
			"compressed_size", len(container),
		)
		return data, false, nil
	}
	return container, true, nil
}

func (v *Vault) newID() string {
	for {
		id := catalog.NewID()
		if v.catalog.HasID(id) {
			continue
		}
		if _, err := os.Lstat(v.dataPath(id)); errors.Is(err, os.ErrNotExist) {
			return id
		}
	}
}

func (v *Vault) writeEnvelope(id string, payload []byte, password *secret.Buffer) (int64, error) {
	file, err := atomicfile.Create(v.dataPath(id), 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Abort()

	if err := v.codec.EncryptStream(file, bytes.NewReader(payload), password); err != nil {
		return 0, fmt.Errorf("encrypting: %w", err)
	}
	if err := file.Commit(); err != nil {
		return 0, err
	}
	return envelope.SealedSize(int64(len(payload))), nil
}

func (v *Vault) removeData(id string) {
	if err := os.Remove(v.dataPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		v.logger.Warn("removing envelope failed", "id", id, "error", err)
		return
	}
	atomicfile.SyncDir(v.dataDir)
}

// Open decrypts the entry stored under name and returns its original
// bytes after checking the recorded checksum. Entries without a
// checksum, written before checksums were recorded, are not checked.
func (v *Vault) Open(name string, password *secret.Buffer) ([]byte, error) {
	entry, ok := v.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not in the vault", ErrNotFound, name)
	}

	sealed, err := os.ReadFile(v.dataPath(entry.ID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: envelope %s for %q is missing", ErrNotFound, entry.ID, name)
		}
		return nil, fmt.Errorf("reading envelope: %w", err)
	}

	plaintext, err := v.codec.Decrypt(sealed, password)
	if err != nil {
		return nil, fmt.Errorf("decrypting %q: %w", name, err)
	}

	data := plaintext
	if entry.Compressed {
		data, err = huffman.DecompressBytes(plaintext)
		secret.Zero(plaintext)
		if err != nil {
			return nil, fmt.Errorf("decompressing %q: %w", name, err)
		}
	}

	if entry.Checksum != "" {
		if got := Checksum(data); got != entry.Checksum {
			secret.Zero(data)
			return nil, fmt.Errorf("%w: %q: recorded %s, got %s", ErrChecksumMismatch, name, entry.Checksum, got)
		}
	}
	return data, nil
}

// Extract writes the entry stored under name to
// destDir/extracted_<base name> and returns that path. Nothing is
// written unless decryption, decompression and the checksum all
// succeed.
func (v *Vault) Extract(name string, password *secret.Buffer, destDir string) (string, error) {
	data, err := v.Open(name, password)
	if err != nil {
		return "", err
	}
	defer secret.Zero(data)

	if destDir == "" {
		destDir = "."
	}
	outputPath := filepath.Join(destDir, ExtractPrefix+filepath.Base(name))
	if err := atomicfile.WriteFile(outputPath, data, 0o600); err != nil {
		return "", err
	}

	v.logger.Info("file extracted", "name", name, "path", outputPath, "size", len(data))
	return outputPath, nil
}

// Remove deletes the entry stored under name and then its envelope.
func (v *Vault) Remove(name string) error {
	entry, ok := v.catalog.Delete(name)
	if !ok {
		return fmt.Errorf("%w: %q is not in the vault", ErrNotFound, name)
	}
	if err := v.catalog.Save(); err != nil {
		v.catalog.Put(entry)
		return err
	}
	v.removeData(entry.ID)
	v.logger.Info("file removed", "name", name, "id", entry.ID)
	return nil
}
