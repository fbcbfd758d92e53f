package coapmsg

import (
	"time"
)

// The IANA-assigned standard port for CoAP services.
const COAP_PORT = 5683

const PayloadMarker = 0xff

// Transmission parameters (RFC 7252 section 4.8). The codec itself never
// waits on any of them; they are the contract surface consumed by a
// transport layer driving this library.
const (
	ACK_TIMEOUT       = 2 * time.Second
	ACK_RANDOM_FACTOR = 1.5
	MAX_RETRANSMIT    = 4
	NSTART            = 1
	DEFAULT_LEISURE   = 5 * time.Second

	MAX_LATENCY      = 100 * time.Second
	PROCESSING_DELAY = ACK_TIMEOUT

	// After this time protocol sends empty ACK, and separate response.
	EMPTY_ACK_DELAY = 100 * time.Millisecond
)

// Derived transmission parameters (RFC 7252 section 4.8.2).
var (
	MAX_TRANSMIT_SPAN = time.Duration(float64(ACK_TIMEOUT) * float64((1<<MAX_RETRANSMIT)-1) * ACK_RANDOM_FACTOR)
	MAX_TRANSMIT_WAIT = time.Duration(float64(ACK_TIMEOUT) * float64((1<<(MAX_RETRANSMIT+1))-1) * ACK_RANDOM_FACTOR)
	MAX_RTT           = 2*MAX_LATENCY + PROCESSING_DELAY
	EXCHANGE_LIFETIME = MAX_TRANSMIT_SPAN + MAX_RTT
	NON_LIFETIME      = MAX_TRANSMIT_SPAN + MAX_LATENCY

	// Time after which a server assumes it won't receive an answer.
	REQUEST_TIMEOUT = MAX_TRANSMIT_WAIT
)

// DEFAULT_BLOCK_SIZE_EXPONENT yields 64-byte blocks. Peers offering a
// larger first block are negotiated down to this size.
const DEFAULT_BLOCK_SIZE_EXPONENT = 2

type CoapType uint8

const (
	CON CoapType = 0
	NON CoapType = 1
	ACK CoapType = 2
	RST CoapType = 3
)

type CoapMethod uint8

const (
	CoapMethodGet    CoapMethod = 1
	CoapMethodPost   CoapMethod = 2
	CoapMethodPut    CoapMethod = 3
	CoapMethodDelete CoapMethod = 4
)

type CoapCode uint8

const (
	CoapCodeEmpty CoapCode = 0

	// Methods
	GET    CoapCode = 1
	POST   CoapCode = 2
	PUT    CoapCode = 3
	DELETE CoapCode = 4

	// Responses
	CoapCodeCreated  CoapCode = 65
	CoapCodeDeleted  CoapCode = 66
	CoapCodeValid    CoapCode = 67
	CoapCodeChanged  CoapCode = 68
	CoapCodeContent  CoapCode = 69
	CoapCodeContinue CoapCode = 95 // (2.31 Continue)

	// Errors
	CoapCodeBadRequest               CoapCode = 128
	CoapCodeUnauthorized             CoapCode = 129
	CoapCodeBadOption                CoapCode = 130
	CoapCodeForbidden                CoapCode = 131
	CoapCodeNotFound                 CoapCode = 132
	CoapCodeMethodNotAllowed         CoapCode = 133
	CoapCodeNotAcceptable            CoapCode = 134
	CoapCodeRequestEntityIncomplete  CoapCode = 136 // (4.08)
	CoapCodePreconditionFailed       CoapCode = 140
	CoapCodeRequestEntityTooLarge    CoapCode = 141
	CoapCodeUnsupportedContentFormat CoapCode = 143
	CoapCodeInternalServerError      CoapCode = 160
	CoapCodeNotImplemented           CoapCode = 161
	CoapCodeBadGateway               CoapCode = 162
	CoapCodeServiceUnavailable       CoapCode = 163
	CoapCodeGatewayTimeout           CoapCode = 164
	CoapCodeProxyingNotSupported     CoapCode = 165
)

// IsRequest reports whether the code belongs to the request range (0.01-0.31).
func (c CoapCode) IsRequest() bool {
	return c >= 1 && c < 32
}

// IsResponse reports whether the code belongs to the response range (2.xx-5.xx).
func (c CoapCode) IsResponse() bool {
	return c >= 64 && c < 192
}

// IsSuccessful reports whether the code belongs to the 2.xx class.
func (c CoapCode) IsSuccessful() bool {
	return c >= 64 && c < 96
}

func (c CoapCode) IsCommonError() bool {
	return c >= 128 && c < 160
}

func (c CoapCode) IsInternalError() bool {
	return c >= 160 && c <= 165
}

type MediaType int

const (
	MediaTypeTextPlain                  MediaType = 0
	MediaTypeApplicationLinkFormat      MediaType = 40
	MediaTypeApplicationXML             MediaType = 41
	MediaTypeApplicationOctetStream     MediaType = 42
	MediaTypeApplicationRdfXML          MediaType = 43
	MediaTypeApplicationSoapXML         MediaType = 44
	MediaTypeApplicationAtomXML         MediaType = 45
	MediaTypeApplicationXmppXML         MediaType = 46
	MediaTypeApplicationExi             MediaType = 47
	MediaTypeApplicationFastInfoSet     MediaType = 48
	MediaTypeApplicationSoapFastInfoSet MediaType = 49
	MediaTypeApplicationJSON            MediaType = 50
)

// String returns the Internet media type description for CoAP-assigned
// Content-Format codes, or an empty string for unassigned codes.
func (mt MediaType) String() string {
	switch mt {
	case MediaTypeTextPlain:
		return "text/plain"
	case MediaTypeApplicationLinkFormat:
		return "application/link-format"
	case MediaTypeApplicationXML:
		return "application/xml"
	case MediaTypeApplicationOctetStream:
		return "application/octet-stream"
	case MediaTypeApplicationExi:
		return "application/exi"
	case MediaTypeApplicationJSON:
		return "application/json"
	default:
		return ""
	}
}

type OptionCode int

const (
	OptionIfMatch       OptionCode = 1
	OptionURIHost       OptionCode = 3
	OptionEtag          OptionCode = 4
	OptionIfNoneMatch   OptionCode = 5
	OptionObserve       OptionCode = 6
	OptionURIPort       OptionCode = 7
	OptionLocationPath  OptionCode = 8
	OptionURIPath       OptionCode = 11
	OptionContentFormat OptionCode = 12
	OptionMaxAge        OptionCode = 14
	OptionURIQuery      OptionCode = 15
	OptionAccept        OptionCode = 17
	OptionLocationQuery OptionCode = 20
	OptionBlock2        OptionCode = 23
	OptionBlock1        OptionCode = 27
	OptionSize2         OptionCode = 28
	OptionProxyURI      OptionCode = 35
	OptionProxyScheme   OptionCode = 39
	OptionSize1         OptionCode = 60
)

// Fragments/parts of a CoAP Message packet
const (
	DataHeader     = 0
	DataCode       = 1
	DataMsgIDStart = 2
	DataMsgIDEnd   = 4
	DataTokenStart = 4
)
