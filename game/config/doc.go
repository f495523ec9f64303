// Package config manages board presets.
//
// A preset is an engine.BoardConfig: the 18 resource/number pairs, where the
// desert is inserted, the hex geometry and optionally the seat names. The
// built-in "standard" preset is always available. Additional presets are JSON
// files in a board directory, addressed by file name without extension:
//
//	{
//	  "name": "Brick heavy",
//	  "description": "More brick, fewer sheep",
//	  "resources": ["brick", "wood", ...],
//	  "numbers": [5, 2, 6, ...],
//	  "desert_index": 9
//	}
//
// hex_size, center_x, center_y and desert_index default to the standard
// values when omitted. Files are validated on load; invalid files are skipped
// by ListBoards and rejected by LoadBoard with ErrInvalidBoard.
//
// Usage:
//
//	manager, err := config.NewManager("boards")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := manager.LoadBoard("brick_heavy")
package config
