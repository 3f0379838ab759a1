package zoom

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// NumChannels is the size of the fixed recorder channel layout.
const NumChannels = 6

// takeFolderPattern matches recorder take folders: the literal prefix ZOOM
// followed by one or more digits and nothing else.
var takeFolderPattern = regexp.MustCompile(`^ZOOM[0-9]+$`)

// variantPattern validates channel label variants at construction time.
var variantPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Channel is one input channel of the recorder layout.
type Channel struct {
	// Name is the display name given to the channel's track, e.g. "Tr1".
	Name string `json:"name" yaml:"name"`
	// Variants are the accepted filename labels, lowercase, tried in order.
	Variants []string `json:"variants" yaml:"variants"`

	patterns []*regexp.Regexp
}

// NewChannel builds a Channel with compiled matchers for each variant.
// Variants must be lowercase alphanumeric labels.
func NewChannel(name string, variants ...string) (Channel, error) {
	if name == "" {
		return Channel{}, fmt.Errorf("channel name must not be empty")
	}
	if len(variants) == 0 {
		return Channel{}, fmt.Errorf("channel %s: at least one variant required", name)
	}
	c := Channel{Name: name, Variants: variants}
	for _, v := range variants {
		if !variantPattern.MatchString(v) {
			return Channel{}, fmt.Errorf("channel %s: variant %q must be lowercase alphanumeric", name, v)
		}
		// The extension class is a run of the letters w, a and v: the
		// recorder emits .wav and .WAV, and the legacy matcher accepted
		// any combination. Preserved as observable behavior.
		c.patterns = append(c.patterns, regexp.MustCompile(`_`+v+`\.[wav]+$`))
	}
	return c, nil
}

func mustChannel(name string, variants ...string) Channel {
	c, err := NewChannel(name, variants...)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultChannels = []Channel{
	mustChannel("Tr1", "tr1"),
	mustChannel("Tr2", "tr2"),
	mustChannel("Tr3", "tr3", "trlr"),
	mustChannel("Tr4", "tr4"),
	mustChannel("Tr5", "tr5"),
	mustChannel("Tr6", "tr6"),
}

// DefaultChannels returns the fixed six-channel recorder layout. The slice
// is a fresh copy; callers may reorder or slice it freely.
func DefaultChannels() []Channel {
	out := make([]Channel, len(defaultChannels))
	copy(out, defaultChannels)
	return out
}

// Matches reports whether filename resolves to this channel. Matching is
// case-insensitive on the name; directories are the caller's concern.
func (c Channel) Matches(filename string) bool {
	lower := strings.ToLower(filename)
	for _, p := range c.patterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// FirstMatch returns the first qualifying name in byte order, matching the
// legacy sort-then-pick selection. ok is false when nothing qualifies.
func (c Channel) FirstMatch(names []string) (best string, ok bool) {
	for _, n := range names {
		if !c.Matches(n) {
			continue
		}
		if !ok || n < best {
			best, ok = n, true
		}
	}
	return best, ok
}

// IsTakeFolder reports whether name is a recorder take folder.
func IsTakeFolder(name string) bool {
	return takeFolderPattern.MatchString(name)
}

// TakeName strips the extension from a file's base name for use as a take
// label. Returns "" when nothing remains.
func TakeName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
