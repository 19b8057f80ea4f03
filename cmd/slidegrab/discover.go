package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xaionaro-go/slidegrab/logger"
	"github.com/xaionaro-go/slidegrab/urltools"
)

// discoverVideos expands directories (non-recursively) into the video files
// they contain; explicit file arguments are taken as is.
func discoverVideos(ctx context.Context, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var videos []string
	for _, arg := range args {
		if !urltools.IsFileURL(arg) {
			return nil, fmt.Errorf("'%s' is not a local file; live streams are not supported", arg)
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("unable to access '%s': %w", arg, err)
		}
		if !info.IsDir() {
			videos = append(videos, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("unable to list '%s': %w", arg, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() || !urltools.IsVideoFile(entry.Name()) {
				continue
			}
			found = append(found, filepath.Join(arg, entry.Name()))
		}
		sort.Strings(found)
		logger.Debugf(ctx, "found %d videos in '%s'", len(found), arg)
		videos = append(videos, found...)
	}
	return videos, nil
}
