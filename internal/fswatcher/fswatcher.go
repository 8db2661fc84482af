package fswatcher

import (
	"github.com/fsnotify/fsnotify"

	"github.com/sweets9/SOC-ThreatViz/internal/util"
)

// Watch watches the given files and calls onWrite with the path whenever one
// of them is written to. Store files are normally only touched by this
// process, so a write event from anywhere else (manual edits, external
// tooling) is worth noticing. Close the returned watcher to stop.
func Watch(files []string, onWrite func(path string)) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					util.PrintDebug("store file modified: " + event.Name)
					onWrite(event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				util.PrintError("watcher error: " + err.Error())
			}
		}
	}()

	for _, file := range files {
		if err := watcher.Add(file); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return watcher, nil
}
