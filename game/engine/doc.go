// Package engine provides the core game logic for Hex Settlers.
//
// The engine package implements:
//   - Procedural generation of the fixed 19-tile hex board
//   - Node deduplication and tile/node incidence
//   - Node adjacency for road placement
//   - Dice rolls and resource production
//   - Settlement and road construction with atomic resource accounting
//
// Core Types:
//
// Board is the immutable graph produced by GenerateBoard from a BoardConfig.
// Game owns a Board, two Players, the turn counter and the current player
// pointer, and exposes Roll and Build. Snapshot is the deep-copied serialized
// view handed to transports.
//
// Usage:
//
//	game, err := engine.NewGame(uuid.NewString(), engine.DefaultBoardConfig(), engine.NewRandomDice(seed))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roll := game.Roll()
//	_, err = game.Build(engine.BuildRequest{Player: 0, Kind: engine.BuildSettlement, Node: 5})
//	state := game.Snapshot()
//
// Board Geometry:
//
// Tiles are pointy-top hexagons laid out in rows of 3, 4, 5, 4 and 3. Corners
// are visited from angle π/6 in steps of π/3 and rounded to CoordPrecision
// decimals; the first tile and corner to produce a rounded coordinate owns the
// node id. The standard layout yields 54 nodes and 72 edges.
//
// Rules:
//
// There is no phase or turn gating: any player may roll or build at any time.
// A roll of 7 is reported as a robber event but not resolved. Settlements are
// not subject to a distance rule.
package engine
