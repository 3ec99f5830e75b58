package storage

import "errors"

// Failure kinds surfaced by all storage operations. Callers branch on these
// with errors.Is; operations attach context by wrapping but never invent new
// kinds.
var (
	// ErrNotImplemented is returned when an operation is not provided by a
	// backend.
	ErrNotImplemented = errors.New("operation not implemented")

	// ErrProviderMismatch is returned when an entry issued by one provider is
	// passed to an operation of a different provider or folder root.
	ErrProviderMismatch = errors.New("entry belongs to a different provider")

	// ErrNotAnEntry is returned when a value that is not a File or Folder is
	// passed where an entry is required.
	ErrNotAnEntry = errors.New("not an entry")

	// ErrNotAFolder is returned when a folder operation hits an entry that is
	// not a folder.
	ErrNotAFolder = errors.New("not a folder")

	// ErrNotAFile is returned when a file operation hits an entry that is not
	// a file.
	ErrNotAFile = errors.New("not a file")

	// ErrNotAFileSystem is returned when a provider is constructed without a
	// usable backend.
	ErrNotAFileSystem = errors.New("not a file system")

	// ErrOutOfSpace is returned when the backend has no capacity left.
	ErrOutOfSpace = errors.New("out of space")

	// ErrPermissionDenied is returned when the backend denies access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEntryExists is returned when the destination name is already taken
	// and overwrite was not requested.
	ErrEntryExists = errors.New("entry already exists")

	// ErrFileIsReadOnly is returned when writing through a read-only file
	// handle.
	ErrFileIsReadOnly = errors.New("file is read-only")

	// ErrDomainNotSupported is returned when the requested domain is not in
	// the provider's supported set.
	ErrDomainNotSupported = errors.New("domain not supported")

	// ErrInvalidFileName is returned for names violating naming rules.
	ErrInvalidFileName = errors.New("invalid file name")

	// ErrEntryNotFound is returned when an entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
)

// ValidateName verifies that name is usable as a single path element. It
// rejects empty names, "." and "..", and names containing separators or NUL.
// Backends may impose additional rules of their own.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidFileName
	}

	for _, r := range name {
		switch r {
		case '/', '\\', 0:
			return ErrInvalidFileName
		}
	}

	return nil
}
