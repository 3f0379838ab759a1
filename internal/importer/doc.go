// Package importer orchestrates a ZOOM folder import from root selection to
// the final timeline refresh.
//
// # Pipeline
//
// A run moves through fixed phases:
//
//	SelectRoot → DiscoverFolders → PrescanFiles → ProvisionTracks → PlaceItems → Finalize
//
// Selection failures (cancel), an empty root, and a root with no channel
// files are terminal for the run, never for the process: the engine reports
// through its Console and returns a sentinel error. Per-file load failures
// only produce a warning; the file contributes zero seconds to its folder
// and the run continues.
//
// # Track Provisioning
//
// The prescan decides which channels are active (at least one resolved file
// in any folder). Active channels get contiguous track slots from position
// zero in channel-definition order; a track already at a slot is reused and
// renamed, so re-running over the same root never duplicates tracks.
//
// # Timeline Layout
//
// All items of one folder share the same start position. After a folder the
// cursor advances once, by the longest item duration the folder produced
// (zero when nothing was placed), so folders line up back to back.
//
// # Undo
//
// Every host mutation of a run happens inside a single undo block, opened
// before root selection and closed after the final refresh. Nothing is
// rolled back on a warning; whatever was placed stays.
//
// # Incremental Batches
//
// Batch imports pre-resolved folders against the engine's accumulated state
// (bound tracks, advancing cursor, already-imported folders). Watch mode
// feeds newly appeared folders through it; Run uses the same core for the
// one-shot flow.
package importer
