package particle

import "slices"

const (
	poolBlockSize = 64
)

// pool is the arena of every particle an emitter has constructed.
// Particles live in fixed-size blocks addressed by slot index; retired
// slots are tracked on a LIFO free stack. A slot is on the free stack at
// most once, and only while its particle is inert.
type pool struct {
	blocks    [][poolBlockSize]*Particle
	pooled    [][poolBlockSize]bool
	freeSlots []uint32
	nextIndex uint32
	occupied  int
}

// reserve sizes the free stack for n retired particles.
func (pl *pool) reserve(n int) {
	if n > cap(pl.freeSlots) {
		pl.freeSlots = slices.Grow(pl.freeSlots, n-len(pl.freeSlots))
	}
}

// insert places a newly constructed particle into the arena and returns its slot.
func (pl *pool) insert(build func(index uint32) *Particle) *Particle {
	index := pl.nextIndex
	pl.nextIndex++

	blockIdx := index / poolBlockSize
	slotIdx := index % poolBlockSize

	if int(blockIdx) >= len(pl.blocks) {
		pl.blocks = append(pl.blocks, [poolBlockSize]*Particle{})
		pl.pooled = append(pl.pooled, [poolBlockSize]bool{})
	}

	p := build(index)
	pl.blocks[blockIdx][slotIdx] = p
	pl.occupied++
	return p
}

// get returns the particle at index, or nil for empty slots.
func (pl *pool) get(index uint32) *Particle {
	blockIdx := index / poolBlockSize
	if int(blockIdx) >= len(pl.blocks) {
		return nil
	}
	return pl.blocks[blockIdx][index%poolBlockSize]
}

// isPooled reports whether the slot is on the free stack.
func (pl *pool) isPooled(index uint32) bool {
	blockIdx := index / poolBlockSize
	if int(blockIdx) >= len(pl.pooled) {
		return false
	}
	return pl.pooled[blockIdx][index%poolBlockSize]
}

// push retires the particle at index. Returns false if the slot is empty
// or already pooled.
func (pl *pool) push(index uint32) bool {
	p := pl.get(index)
	if p == nil || p.alive || p.destroyed || pl.isPooled(index) {
		return false
	}
	pl.pooled[index/poolBlockSize][index%poolBlockSize] = true
	pl.freeSlots = append(pl.freeSlots, index)
	p.pooled = true
	return true
}

// pop takes the most recently retired particle off the free stack.
// Slots whose particle is no longer inert are dropped.
func (pl *pool) pop() (*Particle, bool) {
	for len(pl.freeSlots) > 0 {
		index := pl.freeSlots[len(pl.freeSlots)-1]
		pl.freeSlots = pl.freeSlots[:len(pl.freeSlots)-1]
		pl.pooled[index/poolBlockSize][index%poolBlockSize] = false
		p := pl.get(index)
		p.pooled = false
		if !p.alive && !p.destroyed {
			return p, true
		}
	}
	return nil, false
}

// release empties the slot of a destroyed particle.
func (pl *pool) release(index uint32) {
	p := pl.get(index)
	if p == nil {
		return
	}
	if pl.isPooled(index) {
		p.pooled = false
		pl.pooled[index/poolBlockSize][index%poolBlockSize] = false
		if i := slices.Index(pl.freeSlots, index); i >= 0 {
			pl.freeSlots = slices.Delete(pl.freeSlots, i, i+1)
		}
	}
	pl.blocks[index/poolBlockSize][index%poolBlockSize] = nil
	pl.occupied--
}

// len returns the number of pooled particles.
func (pl *pool) len() int {
	return len(pl.freeSlots)
}

// each calls fn for every pooled particle, most recently retired first.
func (pl *pool) each(fn func(*Particle) bool) {
	for i := len(pl.freeSlots) - 1; i >= 0; i-- {
		if !fn(pl.get(pl.freeSlots[i])) {
			return
		}
	}
}
