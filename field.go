package coapmsg

import (
	"encoding/binary"

	cerr "github.com/coalalib/coapmsg/errors"
)

/*
   Option delta and option length share one variable-length encoding: a
   4-bit nibble in the option header, extended by one byte (nibble 13) or
   two big-endian bytes (nibble 14). Nibble 15 is reserved for the payload
   marker and is intercepted before these routines run.

    0   1   2   3   4   5   6   7
   +---------------+---------------+
   |               |               |
   |  Option Delta | Option Length |   1 byte
   |               |               |
   +---------------+---------------+
   \                               \
   /         Option Delta          /   0-2 bytes
   \          (extended)           \
   +-------------------------------+
   \                               \
   /         Option Length         /   0-2 bytes
   \          (extended)           \
   +-------------------------------+
*/

// readExtendedFieldValue resolves a header nibble against the bytes that
// follow it, returning the decoded value and the unconsumed remainder.
func readExtendedFieldValue(nibble uint8, data []byte) (int, []byte, error) {
	switch {
	case nibble < 13:
		return int(nibble), data, nil

	case nibble == 13:
		if len(data) < 1 {
			return 0, nil, cerr.TruncatedMessage
		}
		return int(data[0]) + 13, data[1:], nil

	case nibble == 14:
		if len(data) < 2 {
			return 0, nil, cerr.TruncatedMessage
		}
		return int(binary.BigEndian.Uint16(data[:2])) + 269, data[2:], nil
	}

	return 0, nil, cerr.OptionValueOutOfRange
}

// writeExtendedFieldValue splits a delta or length into its header nibble
// and extension bytes. Values of 65804 and above cannot be represented.
func writeExtendedFieldValue(value int) (uint8, []byte, error) {
	switch {
	case value >= 0 && value < 13:
		return uint8(value), nil, nil

	case value < 269:
		return 13, []byte{byte(value - 13)}, nil

	case value < 65804:
		ext := make([]byte, 2)
		binary.BigEndian.PutUint16(ext, uint16(value-269))
		return 14, ext, nil
	}

	log.Error("Invalid Option Delta", value)
	return 0, nil, cerr.OptionValueOutOfRange
}
