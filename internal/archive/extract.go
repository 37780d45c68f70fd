package archive

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat marks a file whose contents match no known archive format.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrUnsafePath marks an entry whose name escapes the destination directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// Format identifies a detected archive container.
type Format string

const (
	FormatUnknown Format = ""
	FormatZip     Format = "zip"
	FormatTar     Format = "tar"
	FormatTarGz   Format = "tar.gz"
	FormatGzip    Format = "gzip"
)

const (
	sniffLen       = 512
	tarMagicOffset = 257
)

var (
	zipLocalHeader = []byte("PK\x03\x04")
	zipEmptyEnd    = []byte("PK\x05\x06")
	gzipMagic      = []byte{0x1f, 0x8b}
	tarMagic       = []byte("ustar")
)

// Detect sniffs the leading bytes of an archive. A gzip stream is reported as
// FormatGzip; Extract looks inside it to tell tar.gz from a single file.
func Detect(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, zipLocalHeader), bytes.HasPrefix(header, zipEmptyEnd):
		return FormatZip
	case bytes.HasPrefix(header, gzipMagic):
		return FormatGzip
	case isTarHeader(header):
		return FormatTar
	default:
		return FormatUnknown
	}
}

func isTarHeader(header []byte) bool {
	end := tarMagicOffset + len(tarMagic)
	return len(header) >= end && bytes.Equal(header[tarMagicOffset:end], tarMagic)
}

// Extract unpacks src into destDir, creating destDir if needed. It returns the
// detected format. On error destDir may hold a partial extraction; callers own
// its cleanup.
func Extract(ctx context.Context, src, destDir string) (Format, error) {
	f, err := os.Open(src)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, sniffLen)
	header, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return FormatUnknown, fmt.Errorf("read header: %w", err)
	}

	format := Detect(header)
	if format == FormatUnknown {
		return format, fmt.Errorf("%s: %w", filepath.Base(src), ErrUnsupportedFormat)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return format, fmt.Errorf("create destination: %w", err)
	}

	switch format {
	case FormatZip:
		return format, extractZip(ctx, src, destDir)
	case FormatTar:
		return format, extractTar(ctx, br, destDir)
	default:
		return extractGzip(ctx, br, src, destDir)
	}
}

func extractZip(ctx context.Context, src, destDir string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return err
		}
		mode := file.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case mode.IsRegular():
			rc, err := file.Open()
			if err != nil {
				return fmt.Errorf("open zip entry %s: %w", file.Name, err)
			}
			err = writeFile(target, rc, mode.Perm())
			rc.Close()
			if err != nil {
				return fmt.Errorf("write zip entry %s: %w", file.Name, err)
			}
		}
	}
	return nil
}

func extractTar(ctx context.Context, r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, fs.FileMode(hdr.Mode).Perm()); err != nil {
				return fmt.Errorf("write tar entry %s: %w", hdr.Name, err)
			}
		}
	}
}

func extractGzip(ctx context.Context, r io.Reader, src, destDir string) (Format, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return FormatGzip, fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	br := bufio.NewReaderSize(gz, sniffLen)
	header, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return FormatGzip, fmt.Errorf("read gzip stream: %w", err)
	}
	if isTarHeader(header) {
		return FormatTarGz, extractTar(ctx, br, destDir)
	}

	name := gzipMemberName(gz.Name, src)
	target, err := safeJoin(destDir, name)
	if err != nil {
		return FormatGzip, err
	}
	if err := writeFile(target, br, 0o644); err != nil {
		return FormatGzip, fmt.Errorf("write %s: %w", name, err)
	}
	return FormatGzip, nil
}

// gzipMemberName prefers the name stored in the gzip header and falls back to
// the archive name without its .gz suffix.
func gzipMemberName(headerName, src string) string {
	if name := filepath.Base(strings.TrimSpace(headerName)); name != "" && name != "." && name != "/" {
		return name
	}
	base := filepath.Base(src)
	if trimmed := strings.TrimSuffix(base, filepath.Ext(base)); trimmed != "" {
		return trimmed
	}
	return base
}

// safeJoin resolves an entry name under destDir, rejecting absolute names and
// names that climb out with "..".
func safeJoin(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", name, ErrUnsafePath)
	}
	return filepath.Join(destDir, cleaned), nil
}

func writeFile(target string, r io.Reader, perm fs.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
