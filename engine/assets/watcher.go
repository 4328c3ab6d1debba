package assets

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/pcercuei/openrw/engine/core"
)

// shaderExts are the source file extensions the watcher reports on. Editors
// write temp files and directories change too; everything else is ignored.
var shaderExts = map[string]bool{
	".vert": true,
	".frag": true,
	".glsl": true,
}

// Watcher reports shader source files changing on disk so the application
// can recompile programs while running. It watches a directory tree
// recursively and emits the path of every created or modified shader file.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	changed  chan string
	done     chan struct{}

	mutex    sync.Mutex
	isClosed bool
}

// NewWatcher starts watching dir and all of its subdirectories.
func NewWatcher(dir string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		changed:  make(chan string, 16),
		done:     make(chan struct{}),
	}
	if err := w.addRecursive(dir); err != nil {
		fsWatch.Close()
		return nil, err
	}

	go w.start()
	return w, nil
}

// Changed delivers the paths of shader sources that changed. The channel is
// closed when the watcher shuts down.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return
	}
	w.isClosed = true
	close(w.done)
}

func (w *Watcher) start() {
	for {
		select {

		case e := <-w.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				// New subdirectories join the watch list.
				if e.Op&fsnotify.Create != 0 {
					if err := w.addRecursive(e.Name); err != nil {
						core.LogWarn("watching %s: %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 && isShaderSource(e.Name) {
				select {
				case w.changed <- e.Name:
				default:
					// A full queue means the consumer stalled; dropping the
					// event is fine, the next write re-delivers.
				}
			}
			if e.Op&fsnotify.Remove != 0 {
				w.fsnotify.Remove(e.Name)
			}

		case err := <-w.fsnotify.Errors:
			if err != nil {
				core.LogError(err.Error())
			}

		case <-w.done:
			w.fsnotify.Close()
			close(w.changed)
			return
		}
	}
}

// addRecursive adds path and every directory below it to the watch list.
func (w *Watcher) addRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		return nil
	})
}

func isShaderSource(path string) bool {
	return shaderExts[strings.ToLower(filepath.Ext(path))]
}
