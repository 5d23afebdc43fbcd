package cpu

// Memory is little endian: the low byte of a word lives at the lower address.
// Addresses wrap modulo the memory size.

func (c *CPU) wrap(addr int) int {
	n := len(c.Mem)
	return ((addr % n) + n) % n
}

// ReadU8 reads a byte from memory.
func (c *CPU) ReadU8(addr uint16) byte {
	return c.Mem[c.wrap(int(addr))]
}

// WriteU8 writes a byte to memory.
func (c *CPU) WriteU8(addr uint16, val byte) {
	c.Mem[c.wrap(int(addr))] = val
}

// ReadU16 reads a little-endian word from memory.
func (c *CPU) ReadU16(addr uint16) uint16 {
	lo := c.Mem[c.wrap(int(addr))]
	hi := c.Mem[c.wrap(int(addr)+1)]
	return uint16(lo) | uint16(hi)<<8
}

// WriteU16 writes a little-endian word to memory.
func (c *CPU) WriteU16(addr uint16, val uint16) {
	c.Mem[c.wrap(int(addr))] = byte(val)
	c.Mem[c.wrap(int(addr)+1)] = byte(val >> 8)
}
