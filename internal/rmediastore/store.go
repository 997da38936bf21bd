// Package rmediastore is a local-filesystem reference implementation of
// mediaio.MediaStore and mediaio.FontProvider. It exists so the render
// engine is exercisable end to end without a caller-supplied backend;
// production callers are free to supply their own MediaStore against S3,
// a CDN, or a database-backed asset table.
package rmediastore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// Store resolves every src/mediaID a composition references to a path
// under root, serving bytes and decoded audio/video straight off disk.
// Fetched bytes are cached in memory and invalidated by a filesystem
// watcher when the backing file changes underneath it.
type Store struct {
	root string
	log  hclog.Logger

	watcher *fsnotify.Watcher

	mu          sync.Mutex
	bytesCache  map[string][]byte
	watchedDirs map[string]bool
}

// New opens a Store rooted at rootDir. Every src/mediaID passed to its
// methods is resolved relative to rootDir; absolute paths and paths that
// escape rootDir are rejected.
func New(rootDir string, log hclog.Logger) (*Store, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, rerr.Wrap(rerr.MediaUnavailable, err)
	}
	s := &Store{
		root:        rootDir,
		log:         log,
		watcher:     watcher,
		bytesCache:  make(map[string][]byte),
		watchedDirs: make(map[string]bool),
	}
	go s.watchInvalidation()
	return s, nil
}

// Close stops the filesystem watcher. Safe to call once; further Store use
// after Close only affects cache invalidation, not reads.
func (s *Store) Close() error {
	return s.watcher.Close()
}

// resolvePath maps a caller-supplied src/mediaID to a path under root,
// rejecting anything that would read outside it.
func (s *Store) resolvePath(srcOrMediaID string) (string, error) {
	if srcOrMediaID == "" {
		return "", rerr.Wrapf(rerr.MediaUnavailable, "empty source path")
	}
	if filepath.IsAbs(srcOrMediaID) {
		return "", rerr.Wrapf(rerr.MediaUnavailable, "absolute source paths are not allowed: %s", srcOrMediaID)
	}
	clean := filepath.Clean(srcOrMediaID)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", rerr.Wrapf(rerr.MediaUnavailable, "source path escapes media root: %s", srcOrMediaID)
	}
	return filepath.Join(s.root, clean), nil
}

// FetchBytes implements mediaio.MediaStore.
func (s *Store) FetchBytes(ctx context.Context, srcOrMediaID string) ([]byte, error) {
	path, err := s.resolvePath(srcOrMediaID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if cached, ok := s.bytesCache[path]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rerr.Wrap(rerr.MediaUnavailable, err)
	}

	kind := mimetype.Detect(data)
	s.log.Debug("fetched media bytes", "path", path, "bytes", len(data), "mime", kind.String())

	s.mu.Lock()
	s.bytesCache[path] = data
	s.watchDirLocked(filepath.Dir(path))
	s.mu.Unlock()

	return data, nil
}

func (s *Store) watchDirLocked(dir string) {
	if s.watchedDirs[dir] {
		return
	}
	if err := s.watcher.Add(dir); err != nil {
		s.log.Warn("failed to watch directory for cache invalidation", "dir", dir, "err", err)
		return
	}
	s.watchedDirs[dir] = true
}

// watchInvalidation evicts a cached file's bytes as soon as its directory
// reports a write/remove/rename, so a caller that edits an asset on disk
// between renders never reads stale bytes back out of the cache.
func (s *Store) watchInvalidation() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			s.mu.Lock()
			if _, cached := s.bytesCache[path]; cached {
				delete(s.bytesCache, path)
				s.log.Debug("invalidated cached media bytes", "path", path, "op", event.Op.String())
			}
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("media store file watcher error", "err", err)
		}
	}
}

// DecodeAudioRange implements mediaio.MediaStore, dispatching to a pure-Go
// wav decoder for .wav sources and to ffmpeg for everything else.
func (s *Store) DecodeAudioRange(ctx context.Context, src string, startSeconds, endSeconds float64) (mediaio.AudioBuffer, error) {
	path, err := s.resolvePath(src)
	if err != nil {
		return mediaio.AudioBuffer{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return decodeWavRange(path, startSeconds, endSeconds)
	}
	return decodeAudioRangeViaFFmpeg(ctx, path, startSeconds, endSeconds)
}

// CreateVideoFrameReader implements mediaio.MediaStore.
func (s *Store) CreateVideoFrameReader(ctx context.Context, src string) (mediaio.VideoFrameReader, error) {
	path, err := s.resolvePath(src)
	if err != nil {
		return nil, err
	}
	return newVideoFrameReader(ctx, path)
}
