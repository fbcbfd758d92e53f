package coapmsg

// OptionValue is the closed set of wire representations an option value
// can take: opaque/string bytes, a canonical big-endian uint, or a packed
// block descriptor. The registry below picks the variant at decode time.
type OptionValue interface {
	Encode() []byte
	Length() int
}

// OpaqueValue holds raw option bytes; string options use it too.
type OpaqueValue []byte

func (v OpaqueValue) Encode() []byte {
	return v
}

func (v OpaqueValue) Length() int {
	return len(v)
}

func (v OpaqueValue) String() string {
	return string(v)
}

// UintValue is encoded without leading zero bytes; the value zero is
// encoded as no bytes at all.
type UintValue uint32

func (v UintValue) Encode() []byte {
	return encodeInt(uint32(v))
}

func (v UintValue) Length() int {
	return len(encodeInt(uint32(v)))
}

type optionFormat uint8

const (
	formatOpaque optionFormat = iota
	formatUint
	formatBlock
)

// Value formats by option number. Unregistered numbers fall back to
// opaque, so unknown options survive a decode/encode round trip intact.
var optionFormats = map[OptionCode]optionFormat{
	OptionObserve:       formatUint,
	OptionURIPort:       formatUint,
	OptionContentFormat: formatUint,
	OptionMaxAge:        formatUint,
	OptionAccept:        formatUint,
	OptionSize2:         formatUint,
	OptionBlock2:        formatBlock,
	OptionBlock1:        formatBlock,
}

func decodeOptionValue(code OptionCode, data []byte) (OptionValue, error) {
	switch optionFormats[code] {
	case formatUint:
		v, err := decodeInt(data)
		if err != nil {
			return nil, err
		}
		return UintValue(v), nil

	case formatBlock:
		v, err := decodeInt(data)
		if err != nil {
			return nil, err
		}
		return NewBlockFromInt(int(v)), nil

	default:
		value := make(OpaqueValue, len(data))
		copy(value, data)
		return value, nil
	}
}
