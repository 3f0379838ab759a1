// Package zoom implements the domain layer for ZOOM field recorder imports.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines the fixed channel layout (Channel) and take folder naming rules
//   - Implements the filename matching logic used to resolve recorder files
//   - Has no knowledge of infrastructure concerns (file I/O, databases, the host project)
//
// # Channel Layout
//
// ZOOM multitrack recorders write one file per armed input, labeling each
// file with the channel it came from: SCENE_Tr1.wav, SCENE_Tr2.wav and so
// on. The recorder family writes the third channel as either Tr3 or TrLR
// depending on the input mode, so that channel accepts both labels. The
// layout is fixed at six channels; DefaultChannels returns it.
//
// # Matching Rules
//
// A file belongs to a channel when its lowercased name ends in
// "_<variant>.<ext>", where <variant> is one of the channel's accepted
// labels and <ext> is any run of the letters w, a and v. The loose
// extension class mirrors the recorder's mixed-case .wav/.WAV output and is
// part of the tool's long-standing observable behavior.
//
// # Take Folders
//
// The recorder groups one take's files under a folder named ZOOM followed by
// digits (ZOOM0001, ZOOM0002, ...). IsTakeFolder recognizes exactly that
// shape, case-sensitively.
package zoom
