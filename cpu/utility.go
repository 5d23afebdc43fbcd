package cpu

import "encoding/binary"

// stream is a read cursor over the code bytes. Reads never go past the end.
type stream struct {
	code []byte
	pos  int
}

func (s *stream) u8() (byte, error) {
	if s.pos >= len(s.code) {
		return 0, ErrTruncated
	}
	b := s.code[s.pos]
	s.pos++
	return b, nil
}

// u16 reads a little-endian word.
func (s *stream) u16() (uint16, error) {
	if s.pos+2 > len(s.code) {
		return 0, ErrTruncated
	}
	w := binary.LittleEndian.Uint16(s.code[s.pos:])
	s.pos += 2
	return w, nil
}

// immediate reads a 1- or 2-byte immediate. A byte is sign-extended when
// signExtend is set and the operation is word sized.
func (s *stream) immediate(wide, signExtend bool) (Immediate, error) {
	if wide && !signExtend {
		w, err := s.u16()
		if err != nil {
			return Immediate{}, err
		}
		return Immediate{Value: w, Wide: true}, nil
	}

	b, err := s.u8()
	if err != nil {
		return Immediate{}, err
	}
	if wide {
		return Immediate{Value: uint16(int16(int8(b))), Wide: true, SignExtended: true}, nil
	}
	return Immediate{Value: uint16(b)}, nil
}

// setNZ updates Z and S from a result of the given width.
func (c *CPU) setNZ(value uint16, wide bool) {
	c.Flags &^= FlagZ | FlagS

	var isZero, isNegative bool
	if wide {
		isZero = value == 0
		isNegative = value&0x8000 != 0
	} else {
		isZero = value&0xFF == 0
		isNegative = value&0x80 != 0
	}

	if isZero {
		c.Flags |= FlagZ
	}
	if isNegative {
		c.Flags |= FlagS
	}
}
