package localfs

import (
	"os"
	"syscall"

	"github.com/pkg/errors"

	"github.com/hostfs/hostfs/storage"
)

// mapError translates OS-level failures to the storage error taxonomy.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return errors.Wrapf(storage.ErrEntryNotFound, "%v", err)
	case errors.Is(err, os.ErrExist):
		return errors.Wrapf(storage.ErrEntryExists, "%v", err)
	case errors.Is(err, os.ErrPermission):
		return errors.Wrapf(storage.ErrPermissionDenied, "%v", err)
	case errors.Is(err, syscall.ENOSPC):
		return errors.Wrapf(storage.ErrOutOfSpace, "%v", err)
	case errors.Is(err, syscall.ENOTDIR):
		return errors.Wrapf(storage.ErrNotAFolder, "%v", err)
	case errors.Is(err, syscall.EISDIR):
		return errors.Wrapf(storage.ErrNotAFile, "%v", err)
	default:
		return err
	}
}
