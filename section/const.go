package section

const (
	MinBlockSize = 1   // smallest block accepted by the codec
	MaxBlockSize = 512 // largest block accepted by the codec

	BaseHeaderSize = 2 // mode/variant/length bytes present in every block
	MaxHeaderSize  = 4 // base header plus a two-byte payload size

	// MaxBlockOverhead is the worst-case growth of one block.
	MaxBlockOverhead = MaxHeaderSize
)

// bit layout of header byte 0
const (
	modeMask       = 0x07
	variantShift   = 3
	variantMask    = 0x07
	lengthHiShift  = 6
	lengthHiMask   = 0x03
	maxPayloadSize = MaxBlockSize
)
