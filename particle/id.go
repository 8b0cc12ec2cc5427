package particle

// Id encodes the owning emitter id (upper 32 bits) and the particle's arena
// slot (lower 32 bits). Standalone particles carry emitter id 0.
type Id uint64

// NewId creates an Id from an emitter id and slot index.
func NewId(emitterId uint32, index uint32) Id {
	return Id(uint64(emitterId)<<32 | uint64(index))
}

// EmitterId extracts the emitter id.
func (id Id) EmitterId() uint32 {
	return uint32(id >> 32)
}

// Index extracts the arena slot index.
func (id Id) Index() uint32 {
	return uint32(id & 0xFFFFFFFF)
}
