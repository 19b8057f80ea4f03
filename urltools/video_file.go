// Package urltools classifies the paths and URLs passed on the command line.
package urltools

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// VideoExtensions are the containers picked up when scanning a directory.
var VideoExtensions = []string{".mp4", ".mkv", ".avi"}

func IsVideoFile(path string) bool {
	return slices.Contains(VideoExtensions, strings.ToLower(filepath.Ext(path)))
}

// IsFileURL reports whether urlString points at a local file rather than a
// network stream.
func IsFileURL(urlString string) bool {
	u, err := url.Parse(urlString)
	if err != nil {
		return true
	}
	switch u.Scheme {
	case "file", "":
		return true
	case "rtmp", "rtmps", "srt", "udp", "tcp", "http", "https", "rtsp", "webrtc":
		return false
	}
	// e.g. a Windows drive letter
	return len(u.Scheme) == 1
}
