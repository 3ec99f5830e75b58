package storage

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// File is an entry holding readable and, depending on its mode, writable
// content. Content is read and written whole; the layer does no caching
// between calls.
type File struct {
	entry

	mode Mode
}

// ReadOptions control File.Read.
type ReadOptions struct {
	// Format selects the content representation; UTF8 when unset.
	Format Format
}

// WriteOptions control File.Write.
type WriteOptions struct {
	// Format declares the representation of the data being written; UTF8
	// when unset.
	Format Format

	// Append concatenates the data at the current end of file instead of
	// replacing prior content.
	Append bool
}

// Mode returns the access mode of this file handle.
func (f *File) Mode() Mode { return f.mode }

// Read returns the file's current content. For the UTF8 format, invalid
// byte sequences are replaced with the Unicode replacement character; the
// Binary format returns raw bytes. Reading never fails due to the handle's
// mode.
func (f *File) Read(ctx context.Context, opt ReadOptions) ([]byte, error) {
	format := opt.Format
	if format == FormatInvalid {
		format = UTF8
	}

	data, err := f.provider.backend.ReadFile(ctx, f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %v", f.name)
	}

	if format == UTF8 {
		return []byte(strings.ToValidUTF8(string(data), "�")), nil
	}

	return data, nil
}

// ReadText reads the file as UTF-8 text.
func (f *File) ReadText(ctx context.Context) (string, error) {
	b, err := f.Read(ctx, ReadOptions{Format: UTF8})
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Write replaces the file's content with data, or appends data at the end
// of file when Append is set. It fails with ErrFileIsReadOnly for handles
// opened in read-only mode.
func (f *File) Write(ctx context.Context, data []byte, opt WriteOptions) error {
	if f.mode == ReadOnly {
		return errors.Wrapf(ErrFileIsReadOnly, "write %v", f.name)
	}

	log(ctx).Debugf("writing %v bytes to %v (append=%v)", len(data), f.path, opt.Append)

	if err := f.provider.backend.WriteFile(ctx, f.path, data, opt.Append); err != nil {
		return errors.Wrapf(err, "write %v", f.name)
	}

	return nil
}

var _ Entry = (*File)(nil)
