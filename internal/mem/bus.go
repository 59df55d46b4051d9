// Package mem implements the Sharp LR35902 memory bus: a single point of
// mutation for the 16-bit address space, routing every read and write to
// the correct region.
package mem

import "lr35902/internal/peripheral"

const (
	BootROMSize     = 256
	CartBankSize    = 0x4000 // 16 KiB
	MinCartridgeLen = 2 * CartBankSize
)

// Bus owns work RAM, high RAM, boot ROM, and the cartridge byte buffers
// directly; VRAM, external RAM, OAM, I/O, and the interrupt-enable byte are
// held behind peripheral.ReadWriter so they can be swapped or mocked.
type Bus struct {
	bootROM    [BootROMSize]byte
	bootAbled  bool // boot ROM overlays bank 0 while true
	cartBank0  [CartBankSize]byte
	cartBankN  [CartBankSize]byte
	workRAM    [0x2000]byte // 0xC000-0xDFFF
	highRAM    [0x7F]byte   // 0xFF80-0xFFFE

	VRAM      peripheral.ReadWriter
	ExtRAM    peripheral.ReadWriter
	OAM       peripheral.ReadWriter
	IO        peripheral.ReadWriter
	IEReg     peripheral.ReadWriter
	CartMapper peripheral.ReadWriter // writes to ROM ranges (no-op for ROM-only carts)
}

// New constructs a Bus with the boot ROM and cartridge preloaded, and
// default RAM-backed peripherals for every delegated region.
func New(bootROM []byte, cartridge []byte) *Bus {
	b := &Bus{
		bootAbled:  true,
		VRAM:       peripheral.NewRAM(0x2000),
		ExtRAM:     peripheral.NewRAM(0x2000),
		OAM:        peripheral.NewRAM(0x00A0),
		IO:         peripheral.NewRAM(0x0080),
		IEReg:      peripheral.NewRAM(1),
		CartMapper: peripheral.NewRAM(0), // no-op: writes beyond size 0 are discarded
	}
	copy(b.bootROM[:], bootROM)
	if len(cartridge) >= CartBankSize {
		copy(b.cartBank0[:], cartridge[:CartBankSize])
	}
	if len(cartridge) >= 2*CartBankSize {
		copy(b.cartBankN[:], cartridge[CartBankSize:2*CartBankSize])
	}
	return b
}

// DisableBootROM unmaps the boot ROM, exposing cartridge bank 0 at
// 0x0000-0x00FF from then on.
func (b *Bus) DisableBootROM() { b.bootAbled = false }

// ReadByte reads one byte from addr, routing by region.
func (b *Bus) ReadByte(addr uint16) byte {
	switch {
	case addr <= 0x00FF && b.bootAbled:
		return b.bootROM[addr]
	case addr <= 0x3FFF:
		return b.cartBank0[addr]
	case addr <= 0x7FFF:
		return b.cartBankN[addr-0x4000]
	case addr <= 0x9FFF:
		return b.VRAM.PeripheralRead(addr - 0x8000)
	case addr <= 0xBFFF:
		return b.ExtRAM.PeripheralRead(addr - 0xA000)
	case addr <= 0xDFFF:
		return b.workRAM[addr-0xC000]
	case addr <= 0xFDFF:
		return b.workRAM[addr-0xE000]
	case addr <= 0xFE9F:
		return b.OAM.PeripheralRead(addr - 0xFE00)
	case addr <= 0xFEFF:
		return 0xFF // reserved, unusable
	case addr <= 0xFF7F:
		return b.IO.PeripheralRead(addr - 0xFF00)
	case addr <= 0xFFFE:
		return b.highRAM[addr-0xFF80]
	default: // 0xFFFF
		return b.IEReg.PeripheralRead(0)
	}
}

// WriteByte writes data to addr, routing by region. ROM ranges route to the
// cartridge mapper collaborator (a no-op for ROM-only cartridges); the echo
// region mirrors work RAM on writes as well as reads.
func (b *Bus) WriteByte(addr uint16, data byte) {
	switch {
	case addr <= 0x00FF && b.bootAbled:
		// boot ROM is read-only even while mapped
	case addr <= 0x3FFF:
		b.CartMapper.PeripheralWrite(addr, data)
	case addr <= 0x7FFF:
		b.CartMapper.PeripheralWrite(addr, data)
	case addr <= 0x9FFF:
		b.VRAM.PeripheralWrite(addr-0x8000, data)
	case addr <= 0xBFFF:
		b.ExtRAM.PeripheralWrite(addr-0xA000, data)
	case addr <= 0xDFFF:
		b.workRAM[addr-0xC000] = data
	case addr <= 0xFDFF:
		b.workRAM[addr-0xE000] = data
	case addr <= 0xFE9F:
		b.OAM.PeripheralWrite(addr-0xFE00, data)
	case addr <= 0xFEFF:
		// reserved, writes ignored
	case addr <= 0xFF7F:
		b.IO.PeripheralWrite(addr-0xFF00, data)
	case addr <= 0xFFFE:
		b.highRAM[addr-0xFF80] = data
	default: // 0xFFFF
		b.IEReg.PeripheralWrite(0, data)
	}
}
