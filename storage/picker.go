package storage

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

// Picker is the user-facing selection surface consulted by the open, save
// and folder getters. Implementations typically bridge to a host UI; an
// empty result means the user dismissed the selection.
type Picker interface {
	// PickFilesForOpening returns backend paths of existing files chosen
	// for opening.
	PickFilesForOpening(ctx context.Context, b Backend, opt OpenOptions) ([]string, error)

	// PickFileForSaving returns the backend path chosen as a save
	// destination, which need not exist yet.
	PickFileForSaving(ctx context.Context, b Backend, opt SaveOptions) (string, error)

	// PickFolder returns the backend path of the chosen folder.
	PickFolder(ctx context.Context, b Backend, opt FolderOptions) (string, error)
}

// HeadlessPicker resolves selections without user interaction: opening
// yields the matching files of the initial domain's root, saving yields the
// suggested name there, and the folder choice is the root itself.
type HeadlessPicker struct{}

// PickFilesForOpening implements Picker.
func (HeadlessPicker) PickFilesForOpening(ctx context.Context, b Backend, opt OpenOptions) ([]string, error) {
	root, err := pickerRoot(b, opt.InitialDomain)
	if err != nil {
		return nil, err
	}

	children, err := b.ReadDir(ctx, root)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, nil
		}

		return nil, err
	}

	var picked []string

	for _, md := range children {
		if md.IsFile() && opt.Types.Matches(md.Name) {
			picked = append(picked, b.Join(root, md.Name))
		}
	}

	sort.Strings(picked)

	return picked, nil
}

// PickFileForSaving implements Picker.
func (HeadlessPicker) PickFileForSaving(ctx context.Context, b Backend, opt SaveOptions) (string, error) {
	root, err := pickerRoot(b, opt.InitialDomain)
	if err != nil {
		return "", err
	}

	name := opt.SuggestedName
	if name == "" {
		name = "Untitled"
	}

	if err := ValidateName(name); err != nil {
		return "", err
	}

	return b.Join(root, name), nil
}

// PickFolder implements Picker.
func (HeadlessPicker) PickFolder(ctx context.Context, b Backend, opt FolderOptions) (string, error) {
	return pickerRoot(b, opt.InitialDomain)
}

func pickerRoot(b Backend, initial Domain) (string, error) {
	d := initial

	if d == DomainInvalid {
		supported := b.SupportedDomains()
		if len(supported) == 0 {
			return "", errors.Wrap(ErrDomainNotSupported, "backend supports no domains")
		}

		d = supported[0]
	}

	return b.DomainRoot(d)
}

var _ Picker = HeadlessPicker{}
