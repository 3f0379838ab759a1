package media

import (
	"context"
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/zoomport/internal/host"
	"github.com/zjrosen/zoomport/internal/log"
)

// DefaultCacheTTL is how long probe results stay valid. A file that changes
// size or mtime busts its entry regardless of TTL.
const DefaultCacheTTL = 30 * time.Minute

// Source is a probed audio file.
type Source struct {
	path string
	info ProbeResult
}

var _ host.Source = (*Source)(nil)

// Path returns the file the source was loaded from.
func (s *Source) Path() string { return s.path }

// Duration returns the playable length in seconds.
func (s *Source) Duration() float64 { return s.info.Duration }

// SampleRate returns the audio sample rate in Hz.
func (s *Source) SampleRate() int { return s.info.SampleRate }

// Channels returns the audio channel count.
func (s *Source) Channels() int { return s.info.Channels }

// Loader probes files with ffprobe and caches the results.
type Loader struct {
	ffprobePath string
	cache       *gocache.Cache
}

var _ host.SourceLoader = (*Loader)(nil)

// NewLoader returns a Loader using the given ffprobe binary (empty for the
// PATH default) and cache TTL (non-positive for DefaultCacheTTL).
func NewLoader(ffprobePath string, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Loader{
		ffprobePath: ffprobePath,
		cache:       gocache.New(ttl, 2*ttl),
	}
}

// Load probes path and returns it as a host source. Results are memoized
// per (path, size, mtime).
func (l *Loader) Load(ctx context.Context, path string) (host.Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}

	key := cacheKey(path, fi)
	if v, ok := l.cache.Get(key); ok {
		log.Debug(log.CatMedia, "Probe cache hit", "path", path)
		return v.(*Source), nil
	}

	pr, err := Probe(ctx, l.ffprobePath, path)
	if err != nil {
		return nil, err
	}
	if pr.Duration < 0 {
		return nil, fmt.Errorf("probe %q: negative duration %.3f", path, pr.Duration)
	}

	src := &Source{path: path, info: *pr}
	l.cache.Set(key, src, gocache.DefaultExpiration)
	log.Debug(log.CatMedia, "Probed file",
		"path", path, "duration", pr.Duration, "format", pr.FormatName)
	return src, nil
}

func cacheKey(path string, fi os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, fi.Size(), fi.ModTime().UnixNano())
}
