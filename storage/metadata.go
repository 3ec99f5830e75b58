package storage

import "time"

// EntryMetadata is an immutable snapshot of an entry's attributes taken at
// the time of the call. It is not kept in sync with subsequent changes.
type EntryMetadata struct {
	Name         string
	Size         int64
	DateCreated  time.Time
	DateModified time.Time
	Type         EntryType
	Mode         Mode
}

// IsFile determines whether the described entry is a file.
func (m *EntryMetadata) IsFile() bool {
	return m.Type == EntryTypeFile
}

// IsFolder determines whether the described entry is a folder.
func (m *EntryMetadata) IsFolder() bool {
	return m.Type == EntryTypeFolder
}
