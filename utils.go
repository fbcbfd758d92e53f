package coapmsg

import (
	"encoding/binary"
	"math/rand"
	"time"

	cerr "github.com/coalalib/coapmsg/errors"
)

var currentMessageID uint16

func init() {
	rand.Seed(time.Now().UnixNano())
	currentMessageID = uint16(rand.Intn(65535))
}

func generateMessageID() uint16 {
	if currentMessageID < 65535 {
		currentMessageID++
	} else {
		currentMessageID = 1
	}
	return currentMessageID
}

// generateToken generates a random token by a given length
var genChars = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890")

func generateToken(l int) []byte {
	token := make([]rune, l)
	for i := range token {
		token[i] = genChars[rand.Intn(len(genChars))]
	}
	return []byte(string(token))
}

// encodeInt produces the canonical minimal big-endian form of v: zero
// encodes as no bytes at all, and leading zero bytes are never emitted.
func encodeInt(v uint32) []byte {
	switch {
	case v == 0:
		return nil

	case v < 256:
		return []byte{byte(v)}

	case v < 65536:
		rv := []byte{0, 0}
		binary.BigEndian.PutUint16(rv, uint16(v))
		return rv

	case v < 16777216:
		rv := []byte{0, 0, 0, 0}
		binary.BigEndian.PutUint32(rv, v)
		return rv[1:]

	default:
		rv := []byte{0, 0, 0, 0}
		binary.BigEndian.PutUint32(rv, v)
		return rv
	}
}

// decodeInt reads a canonical big-endian uint; absent bytes mean zero.
func decodeInt(b []byte) (uint32, error) {
	if len(b) > 4 {
		return 0, cerr.UintOptionTooLong
	}
	tmp := []byte{0, 0, 0, 0}
	copy(tmp[4-len(b):], b)

	return binary.BigEndian.Uint32(tmp), nil
}

func (c CoapType) String() string {
	switch c {
	case CON:
		return "CON"
	case NON:
		return "NON"
	case ACK:
		return "ACK"
	case RST:
		return "RST"
	}
	return ""
}

func (c CoapMethod) String() string {
	switch c {
	case CoapMethodGet:
		return "GET"
	case CoapMethodPost:
		return "POST"
	case CoapMethodPut:
		return "PUT"
	case CoapMethodDelete:
		return "DEL"
	}
	return ""
}
