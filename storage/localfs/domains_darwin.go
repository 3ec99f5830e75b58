//go:build darwin

package localfs

import "github.com/hostfs/hostfs/storage"

// userDirNames maps user domains to directory names under the user root.
func userDirNames() map[storage.Domain]string {
	return map[storage.Domain]string{
		storage.UserDesktop:   "Desktop",
		storage.UserDocuments: "Documents",
		storage.UserPictures:  "Pictures",
		storage.UserVideos:    "Movies",
		storage.UserMusic:     "Music",
	}
}
