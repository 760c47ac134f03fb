package protocol

// CommandType identifies a driver → renderer frame.
type CommandType = FrameType

// Command type constants.
const (
	CmdPutScript    CommandType = 0x01
	CmdDelScript    CommandType = 0x02
	CmdReset        CommandType = 0x03
	CmdGlobalTx     CommandType = 0x04
	CmdCursorTx     CommandType = 0x05
	CmdRender       CommandType = 0x06
	CmdClearColor   CommandType = 0x08
	CmdRequestInput CommandType = 0x0A
	CmdQuit         CommandType = 0x20
	CmdPutFont      CommandType = 0x40
	CmdPutImage     CommandType = 0x41
)

// CommandName returns a human-readable name for a command code.
func CommandName(t CommandType) string {
	switch t {
	case CmdPutScript:
		return "PutScript"
	case CmdDelScript:
		return "DelScript"
	case CmdReset:
		return "Reset"
	case CmdGlobalTx:
		return "GlobalTx"
	case CmdCursorTx:
		return "CursorTx"
	case CmdRender:
		return "Render"
	case CmdClearColor:
		return "ClearColor"
	case CmdRequestInput:
		return "RequestInput"
	case CmdQuit:
		return "Quit"
	case CmdPutFont:
		return "PutFont"
	case CmdPutImage:
		return "PutImage"
	default:
		return "Unknown"
	}
}

// ImageFormat identifies the pixel layout of a transmitted image.
type ImageFormat uint32

const (
	FormatEncoded ImageFormat = 0 // Compressed container (PNG, JPEG, ...)
	FormatGray    ImageFormat = 1 // 1 byte per pixel
	FormatGrayA   ImageFormat = 2 // 2 bytes per pixel
	FormatRGB     ImageFormat = 3 // 3 bytes per pixel
	FormatRGBA    ImageFormat = 4 // 4 bytes per pixel
)

// String returns the string representation of the image format.
func (f ImageFormat) String() string {
	switch f {
	case FormatEncoded:
		return "Encoded"
	case FormatGray:
		return "Gray"
	case FormatGrayA:
		return "GrayA"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	default:
		return "Unknown"
	}
}

// ParseImageFormat maps a symbolic format name to its wire value.
// Unrecognized names map to FormatEncoded.
func ParseImageFormat(name string) ImageFormat {
	switch name {
	case "g", "gray", "Gray":
		return FormatGray
	case "ga", "gray_a", "GrayA":
		return FormatGrayA
	case "rgb", "RGB":
		return FormatRGB
	case "rgba", "RGBA":
		return FormatRGBA
	default:
		return FormatEncoded
	}
}

// Transform is a 2x3 affine transform in column-major order:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Transform struct {
	A, B, C, D, E, F float32
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Color is a normalized RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// EncodePutScript builds a PutScript frame carrying an opaque serialized
// script keyed by id.
//
// Payload: u32 id length, id bytes, script bytes (remainder).
func EncodePutScript(id ID, script []byte) []byte {
	e := NewEncoderWithCap(FrameHeaderSize + 4 + len(id) + len(script))
	e.WriteByte(byte(CmdPutScript))
	e.WriteUint32(uint32(4 + len(id) + len(script)))
	e.WriteLenBytes(id)
	e.WriteBytes(script)
	return e.Bytes()
}

// EncodeDelScript builds a DelScript frame. The id is the whole payload.
func EncodeDelScript(id ID) []byte {
	return EncodeFrame(CmdDelScript, id)
}

// EncodeReset builds a Reset frame.
func EncodeReset() []byte {
	return EncodeFrame(CmdReset, nil)
}

// EncodeGlobalTx builds a GlobalTx frame carrying the design → device
// transform. Payload: six f32 fields a..f.
func EncodeGlobalTx(tx Transform) []byte {
	return encodeTx(CmdGlobalTx, tx)
}

// EncodeCursorTx builds a CursorTx frame carrying the cursor transform.
func EncodeCursorTx(tx Transform) []byte {
	return encodeTx(CmdCursorTx, tx)
}

func encodeTx(t CommandType, tx Transform) []byte {
	e := NewEncoderWithCap(FrameHeaderSize + 24)
	e.WriteByte(byte(t))
	e.WriteUint32(24)
	e.WriteFloat32(tx.A)
	e.WriteFloat32(tx.B)
	e.WriteFloat32(tx.C)
	e.WriteFloat32(tx.D)
	e.WriteFloat32(tx.E)
	e.WriteFloat32(tx.F)
	return e.Bytes()
}

// EncodeRender builds a Render frame.
func EncodeRender() []byte {
	return EncodeFrame(CmdRender, nil)
}

// EncodeClearColor builds a ClearColor frame. Payload: four f32 channels.
func EncodeClearColor(c Color) []byte {
	e := NewEncoderWithCap(FrameHeaderSize + 16)
	e.WriteByte(byte(CmdClearColor))
	e.WriteUint32(16)
	e.WriteFloat32(c.R)
	e.WriteFloat32(c.G)
	e.WriteFloat32(c.B)
	e.WriteFloat32(c.A)
	return e.Bytes()
}

// EncodeRequestInput builds a RequestInput frame. Payload: u32 flags.
func EncodeRequestInput(flags uint32) []byte {
	e := NewEncoderWithCap(FrameHeaderSize + 4)
	e.WriteByte(byte(CmdRequestInput))
	e.WriteUint32(4)
	e.WriteUint32(flags)
	return e.Bytes()
}

// EncodeQuit builds a Quit frame.
func EncodeQuit() []byte {
	return EncodeFrame(CmdQuit, nil)
}

// EncodePutFont builds a PutFont frame.
//
// Payload: u32 name length, name bytes, font data (remainder).
func EncodePutFont(name []byte, data []byte) []byte {
	e := NewEncoderWithCap(FrameHeaderSize + 4 + len(name) + len(data))
	e.WriteByte(byte(CmdPutFont))
	e.WriteUint32(uint32(4 + len(name) + len(data)))
	e.WriteLenBytes(name)
	e.WriteBytes(data)
	return e.Bytes()
}

// EncodePutImage builds a PutImage frame.
//
// Payload: u32 id length, u32 data length, u32 width, u32 height,
// u32 format, id bytes, image data.
func EncodePutImage(id ID, format ImageFormat, width, height uint32, data []byte) []byte {
	e := NewEncoderWithCap(FrameHeaderSize + 20 + len(id) + len(data))
	e.WriteByte(byte(CmdPutImage))
	e.WriteUint32(uint32(20 + len(id) + len(data)))
	e.WriteUint32(uint32(len(id)))
	e.WriteUint32(uint32(len(data)))
	e.WriteUint32(width)
	e.WriteUint32(height)
	e.WriteUint32(uint32(format))
	e.WriteBytes(id)
	e.WriteBytes(data)
	return e.Bytes()
}
