package devicetracker

import "sync/atomic"

// PhyDescriptor is the per-PHY running state of spec §3.4: a small signed
// id, a printable name, and running counters mirrored from every frame
// classified under this PHY.
type PhyDescriptor struct {
	ID   int32
	Name string

	packets       atomic.Uint64
	dataPackets   atomic.Uint64
	cryptPackets  atomic.Uint64
	errorPackets  atomic.Uint64
	filterPackets atomic.Uint64
	numDevices    atomic.Uint64
}

// NewPhyDescriptor constructs a descriptor for a freshly assigned PHY id.
func NewPhyDescriptor(id int32, name string) *PhyDescriptor {
	return &PhyDescriptor{ID: id, Name: name}
}

func (p *PhyDescriptor) Packets() uint64       { return p.packets.Load() }
func (p *PhyDescriptor) DataPackets() uint64   { return p.dataPackets.Load() }
func (p *PhyDescriptor) CryptPackets() uint64  { return p.cryptPackets.Load() }
func (p *PhyDescriptor) ErrorPackets() uint64  { return p.errorPackets.Load() }
func (p *PhyDescriptor) FilterPackets() uint64 { return p.filterPackets.Load() }
func (p *PhyDescriptor) NumDevices() uint64    { return p.numDevices.Load() }

func (p *PhyDescriptor) IncPackets()       { p.packets.Add(1) }
func (p *PhyDescriptor) IncDataPackets()   { p.dataPackets.Add(1) }
func (p *PhyDescriptor) IncCryptPackets()  { p.cryptPackets.Add(1) }
func (p *PhyDescriptor) IncErrorPackets()  { p.errorPackets.Add(1) }
func (p *PhyDescriptor) IncFilterPackets() { p.filterPackets.Add(1) }
func (p *PhyDescriptor) IncNumDevices()    { p.numDevices.Add(1) }
func (p *PhyDescriptor) DecNumDevices()    { p.numDevices.Add(^uint64(0)) }
