package cerr

import "errors"

var (
	// Fatal decode errors: the datagram must be dropped.
	PacketLengthLessThan4 = errors.New("Packet length less than 4 bytes")
	InvalidCoapVersion    = errors.New("Invalid CoAP version. Should be 1.")

	// Malformed datagrams.
	OptionDeltaUsesValue15  = errors.New("Message format error. Option delta has reserved value of 15")
	OptionLengthUsesValue15 = errors.New("Message format error. Option length has reserved value of 15")
	TruncatedMessage        = errors.New("Message ends inside a declared field")
	InvalidTokenLength      = errors.New("Invalid Token Length ( > 8)")
	UintOptionTooLong       = errors.New("Uint option value does not fit in 4 bytes")

	// Encoding failures.
	IncompleteMessage     = errors.New("Message Type and Message ID must be set before serialization")
	OptionValueOutOfRange = errors.New("Option delta or length cannot be represented")

	// Blockwise transfer failures.
	BlockOutOfOrder = errors.New("Block does not continue the accumulated payload")
	MissingBlock    = errors.New("Message carries no block option")
	ResourceChanged = errors.New("Etag changed between response blocks")
	NotARequest     = errors.New("Operation is only valid on request messages")
	NotAResponse    = errors.New("Operation is only valid on response messages")

	NilMessage = errors.New("Message is nil")
)
