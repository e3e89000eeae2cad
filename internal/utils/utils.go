package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stdio is the path that selects stdin or stdout in ReadInput and WriteOutput.
const Stdio = "-"

// --- 1. Error Reporting ---

// ShowError prints a formatted error box to stderr without exiting.
func ShowError(context string, err error) {
	fmt.Fprintf(os.Stderr, "\n---------------------------------------------------------\n")
	fmt.Fprintf(os.Stderr, "🚨 FACEWIRE ERROR: %s\n", context)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DETAILS: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "---------------------------------------------------------\n")
}

// Die is the unified exit strategy for facewire.
func Die(context string, err error) {
	ShowError(context, err)
	os.Exit(1)
}

// --- 2. File Plumbing (Shared by face, image & batch) ---

// ReadInput reads a whole file, or stdin when path is "-".
func ReadInput(path string) ([]byte, error) {
	if path == Stdio {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// WriteOutput writes data to path, creating parent directories, or to stdout
// when path is "-". Files are written to a temp name and renamed into place.
func WriteOutput(path string, data []byte) error {
	if path == Stdio {
		_, err := os.Stdout.Write(data)
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	// CreateTemp uses 0600; outputs are ordinary shareable files.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReplaceExt swaps the extension of path's base name and places it under dir.
func ReplaceExt(dir, path, ext string) string {
	base := filepath.Base(path)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+ext)
}

// --- 3. Identity ---

// ContentID creates a deterministic hash of serialized bytes. Two enrollments
// with the same ContentID carry the same face.
func ContentID(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
