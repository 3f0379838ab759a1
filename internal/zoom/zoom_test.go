package zoom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTakeFolder(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		want   bool
	}{
		{"padded number", "ZOOM0001", true},
		{"short number", "ZOOM12", true},
		{"single digit", "ZOOM1", true},
		{"lowercase prefix", "zoom1", false},
		{"no digits", "ZOOM", false},
		{"letter after prefix", "ZOOMX", false},
		{"trailing junk", "ZOOM0001.bak", false},
		{"leading junk", "MYZOOM0001", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsTakeFolder(tt.folder), "IsTakeFolder(%q)", tt.folder)
		})
	}
}

func TestDefaultChannels(t *testing.T) {
	chans := DefaultChannels()
	require.Len(t, chans, NumChannels)

	names := make([]string, 0, len(chans))
	for _, c := range chans {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"Tr1", "Tr2", "Tr3", "Tr4", "Tr5", "Tr6"}, names)

	// Only Tr3 carries an alias.
	for _, c := range chans {
		if c.Name == "Tr3" {
			require.Equal(t, []string{"tr3", "trlr"}, c.Variants)
		} else {
			require.Len(t, c.Variants, 1, "channel %s should have a single variant", c.Name)
		}
	}

	// Mutating the returned slice must not leak into the package table.
	chans[0] = Channel{}
	require.Equal(t, "Tr1", DefaultChannels()[0].Name)
}

func TestNewChannelValidation(t *testing.T) {
	_, err := NewChannel("", "tr1")
	require.Error(t, err, "empty name should be rejected")

	_, err = NewChannel("Tr1")
	require.Error(t, err, "zero variants should be rejected")

	_, err = NewChannel("Tr1", "TR1")
	require.Error(t, err, "uppercase variant should be rejected")

	_, err = NewChannel("Tr1", "tr 1")
	require.Error(t, err, "variant with space should be rejected")
}

func TestChannelMatches(t *testing.T) {
	tr1 := DefaultChannels()[0]
	tr3 := DefaultChannels()[2]

	tests := []struct {
		name     string
		ch       Channel
		filename string
		want     bool
	}{
		{"plain wav", tr1, "scene1_tr1.wav", true},
		{"uppercase everything", tr1, "SCENE1_TR1.WAV", true},
		{"mixed case", tr1, "Scene1_Tr1.Wav", true},
		{"nothing before underscore", tr1, "_tr1.wav", true},
		{"loose extension waw", tr1, "take_tr1.waw", true},
		{"loose extension vvv", tr1, "take_tr1.vvv", true},
		{"single letter extension", tr1, "take_tr1.w", true},
		{"digit in extension", tr1, "take_tr1.wav4", false},
		{"space in extension", tr1, "take_tr1.wa v", false},
		{"mp3 extension", tr1, "take_tr1.mp3", false},
		{"no underscore before label", tr1, "scenetr1.wav", false},
		{"wrong channel", tr1, "scene_tr2.wav", false},
		{"label not at end", tr1, "scene_tr1.wav.bak", false},
		{"tr3 primary label", tr3, "scene_tr3.wav", true},
		{"tr3 alias", tr3, "scene_trlr.wav", true},
		{"tr3 alias uppercase", tr3, "SCENE_TRLR.WAV", true},
		{"tr3 rejects tr1", tr3, "scene_tr1.wav", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ch.Matches(tt.filename), "Matches(%q)", tt.filename)
		})
	}
}

func TestFirstMatch(t *testing.T) {
	tr1 := DefaultChannels()[0]

	tests := []struct {
		name   string
		names  []string
		want   string
		wantOK bool
	}{
		{"none", []string{"a_tr2.wav", "notes.txt"}, "", false},
		{"single", []string{"b_tr1.wav"}, "b_tr1.wav", true},
		{"byte order picks uppercase first", []string{"b_tr1.wav", "A_TR1.WAV"}, "A_TR1.WAV", true},
		{"ignores non-matching earlier name", []string{"0_tr2.wav", "z_tr1.wav"}, "z_tr1.wav", true},
		{"stable for unsorted input", []string{"c_tr1.wav", "a_tr1.wav", "b_tr1.wav"}, "a_tr1.wav", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr1.FirstMatch(tt.names)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTakeName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"strips extension", "take_tr1.wav", "take_tr1"},
		{"full path", "/music/ZOOM0001/take_tr1.wav", "take_tr1"},
		{"double extension strips last", "take_tr1.wav.wav", "take_tr1.wav"},
		{"no extension", "take_tr1", "take_tr1"},
		{"dotfile strips to empty", ".hidden", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TakeName(tt.path))
		})
	}
}
