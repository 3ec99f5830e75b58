// Package storage implements a virtual filesystem layer exposed to
// sandboxed plugin code. Callers obtain File and Folder handles through a
// FileSystemProvider and operate on them; all actual I/O is delegated to a
// pluggable Backend such as localfs or memfs.
package storage

import (
	"path"
	"strings"
)

// Domain identifies an abstract, platform-defined storage location that a
// backend resolves to a concrete root folder. Domains are compared by
// identity; the zero value is not a valid domain.
type Domain int

// Supported domains.
const (
	DomainInvalid Domain = iota

	UserDesktop
	UserDocuments
	UserPictures
	UserVideos
	UserMusic

	AppLocalData
	AppLocalLibrary
	AppLocalCache
	AppLocalShared
	AppLocalTemporary

	AppRoamingData
	AppRoamingLibrary

	maxDomain
)

var domainNames = map[Domain]string{
	UserDesktop:       "userDesktop",
	UserDocuments:     "userDocuments",
	UserPictures:      "userPictures",
	UserVideos:        "userVideos",
	UserMusic:         "userMusic",
	AppLocalData:      "appLocalData",
	AppLocalLibrary:   "appLocalLibrary",
	AppLocalCache:     "appLocalCache",
	AppLocalShared:    "appLocalShared",
	AppLocalTemporary: "appLocalTemporary",
	AppRoamingData:    "appRoamingData",
	AppRoamingLibrary: "appRoamingLibrary",
}

func (d Domain) String() string {
	if s, ok := domainNames[d]; ok {
		return s
	}

	return "invalidDomain"
}

// Valid determines whether d is one of the declared domains.
func (d Domain) Valid() bool {
	return d > DomainInvalid && d < maxDomain
}

// AllDomains returns all declared domains in stable order.
func AllDomains() []Domain {
	result := make([]Domain, 0, int(maxDomain)-1)

	for d := DomainInvalid + 1; d < maxDomain; d++ {
		result = append(result, d)
	}

	return result
}

// FileType selects a class of files in picker options.
type FileType int

// Supported file type filters.
const (
	FileTypeInvalid FileType = iota
	TextFiles
	ImageFiles
	AllFiles
)

func (t FileType) String() string {
	switch t {
	case TextFiles:
		return "text"
	case ImageFiles:
		return "images"
	case AllFiles:
		return "all"
	default:
		return "invalidFileType"
	}
}

var fileTypeExtensions = map[FileType][]string{
	TextFiles:  {".txt", ".md", ".json", ".xml", ".yaml", ".yml", ".csv", ".log"},
	ImageFiles: {".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff", ".svg"},
}

// Matches determines whether a file with the given name belongs to the
// file type class.
func (t FileType) Matches(name string) bool {
	if t == AllFiles {
		return true
	}

	ext := strings.ToLower(path.Ext(name))

	for _, e := range fileTypeExtensions[t] {
		if ext == e {
			return true
		}
	}

	return false
}

// Format selects the representation of file contents on read and write.
type Format int

// Supported content formats.
const (
	FormatInvalid Format = iota
	UTF8
	Binary
)

func (f Format) String() string {
	switch f {
	case UTF8:
		return "utf8"
	case Binary:
		return "binary"
	default:
		return "invalidFormat"
	}
}

// Mode describes the access mode of a file handle.
type Mode int

// Supported access modes.
const (
	ModeInvalid Mode = iota
	ReadOnly
	ReadWrite
)

func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "readOnly"
	case ReadWrite:
		return "readWrite"
	default:
		return "invalidMode"
	}
}

// EntryType distinguishes files from folders.
type EntryType int

// Supported entry types.
const (
	EntryTypeInvalid EntryType = iota
	EntryTypeFile
	EntryTypeFolder
)

func (t EntryType) String() string {
	switch t {
	case EntryTypeFile:
		return "file"
	case EntryTypeFolder:
		return "folder"
	default:
		return "invalidEntryType"
	}
}
