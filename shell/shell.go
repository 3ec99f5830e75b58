// Package shell opens files and URLs with the host's default applications.
package shell

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"

	"github.com/hostfs/hostfs/logging"
)

var log = logging.GetContextLoggerFunc("hostfs/shell")

// ErrUnsupportedScheme is returned for external URLs outside the allowed
// schemes.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

// OpenPath opens a host-native path with the default application.
func OpenPath(ctx context.Context, nativePath string) error {
	if nativePath == "" {
		return errors.New("empty path")
	}

	log(ctx).Debugf("opening path %v", nativePath)

	return errors.Wrapf(open.Run(nativePath), "opening %v", nativePath)
}

// OpenExternal opens an http, https or mailto URL with the default handler.
func OpenExternal(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrapf(err, "parsing %v", rawURL)
	}

	if !allowedSchemes[u.Scheme] {
		return errors.Wrapf(ErrUnsupportedScheme, "%v", u.Scheme)
	}

	log(ctx).Debugf("opening external URL %v", rawURL)

	return errors.Wrapf(open.Run(rawURL), "opening %v", rawURL)
}
