package payslip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrKeyOutsideArchive = errors.New("payslip: archive key escapes the archive directory")

// Archive stores rendered payslips and returns where they landed.
type Archive interface {
	Store(ctx context.Context, key string, doc Document) (string, error)
}

// ArchiveKey groups documents by period: 2024/01/payslip_Ada_Lovelace_1_2024.pdf.
func ArchiveKey(month, year int, filename string) string {
	return path.Join(fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), filename)
}

type LocalArchive struct {
	dir string
}

func NewLocalArchive(dir string) *LocalArchive {
	return &LocalArchive{dir: dir}
}

// Store overwrites an existing file so regenerated salaries replace their
// previous payslip.
func (a *LocalArchive) Store(ctx context.Context, key string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target, err := a.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, doc.Content, 0o644); err != nil {
		return "", fmt.Errorf("write payslip: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("move payslip into place: %w", err)
	}
	return target, nil
}

func (a *LocalArchive) resolve(key string) (string, error) {
	root, err := filepath.Abs(a.dir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(key))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrKeyOutsideArchive, key)
	}
	return target, nil
}
