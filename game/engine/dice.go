package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Dice produces the two six-sided dice of a roll.
type Dice interface {
	Roll() (int, int)
}

// RandomDice draws uniformly from a seeded PCG source. It is not safe for
// concurrent use; callers serialize rolls.
type RandomDice struct {
	rng *rand.Rand
}

// NewRandomDice returns dice seeded with seed.
func NewRandomDice(seed uint64) *RandomDice {
	return &RandomDice{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Roll returns two independent values in [1,6].
func (d *RandomDice) Roll() (int, int) {
	return d.rng.IntN(6) + 1, d.rng.IntN(6) + 1
}

// NewSeed reads a dice seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// FixedDice replays a scripted sequence of rolls, wrapping around at the end.
type FixedDice struct {
	rolls [][2]int
	next  int
}

// NewFixedDice returns dice that yield rolls in order.
func NewFixedDice(rolls ...[2]int) *FixedDice {
	return &FixedDice{rolls: rolls}
}

// Roll returns the next scripted pair.
func (d *FixedDice) Roll() (int, int) {
	if len(d.rolls) == 0 {
		return 1, 1
	}
	r := d.rolls[d.next%len(d.rolls)]
	d.next++
	return r[0], r[1]
}

// Pips is the number of two-dice combinations that roll total. The robber
// number and anything off the dice range score zero.
func Pips(total int) int {
	if total < MinNumber || total > MaxNumber || total == RobberNumber {
		return 0
	}
	if total < RobberNumber {
		return total - 1
	}
	return 13 - total
}
