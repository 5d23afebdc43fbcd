package cpu

import "errors"

var (
	// ErrUnsupportedOpcode is returned when no instruction pattern matches.
	ErrUnsupportedOpcode = errors.New("unsupported instruction")
	// ErrTruncated is returned when an instruction runs past the end of the stream.
	ErrTruncated = errors.New("truncated instruction stream")
	// ErrEndOfStream is returned when decoding starts at or past the end of the stream.
	ErrEndOfStream = errors.New("end of instruction stream")
	// ErrUnimplementedDestination is returned for destinations the simulator does not model,
	// such as arithmetic on memory.
	ErrUnimplementedDestination = errors.New("unimplemented destination")
	// ErrInvalidOperand is returned when an operand has an unexpected type.
	ErrInvalidOperand = errors.New("invalid operand")
)
