package engine

// Roll throws the dice, advances the turn and pays out production.
//
// A total of 7 yields a single robber event and nothing else. Any other total
// credits one unit of a tile's resource for every settlement on each node of
// every matching non-desert tile, so a player with two settlements on the
// same tile is paid twice. The current player always moves on, whoever asked
// for the roll.
func (g *Game) Roll() *RollResult {
	d1, d2 := g.dice.Roll()
	total := d1 + d2
	g.Turn++

	result := &RollResult{
		Dice:         [2]int{d1, d2},
		Total:        total,
		Distribution: []RollEvent{},
	}

	if total == RobberNumber {
		result.Distribution = append(result.Distribution, RollEvent{Kind: EventRobber, Number: RobberNumber})
	} else {
		for tid, tile := range g.Board.Tiles {
			if tile.Number != total || tile.Resource == Desert {
				continue
			}
			for _, nid := range g.Board.TileToNodes[tid] {
				for _, p := range g.Players {
					if !p.HasSettlement(nid) {
						continue
					}
					p.Resources[tile.Resource]++
					result.Distribution = append(result.Distribution, RollEvent{
						Kind:     EventProduce,
						Player:   p.ID,
						Resource: tile.Resource,
						Node:     nid,
						Tile:     tid,
					})
				}
			}
		}
	}

	g.CurrentPlayer = (g.CurrentPlayer + 1) % len(g.Players)
	return result
}
