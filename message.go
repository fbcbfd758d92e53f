package coapmsg

import (
	"bytes"
	"encoding/binary"
	"net"
	"strconv"
	"strings"
	"time"

	cerr "github.com/coalalib/coapmsg/errors"
	"github.com/op/go-logging"
)

var (
	log = logging.MustGetLogger("coapmsg")
)

// A Message object represents a CoAP payload
type CoAPMessage struct {
	Type    CoapType
	Code    CoapCode
	Token   []byte
	Payload CoAPMessagePayload
	Options *Options

	// Transport-owned state, opaque to the codec.
	Sender    net.Addr
	Recipient net.Addr
	Attempts  int
	LastSent  time.Time

	// Response disposition decided by a routing layer; invalidated when
	// an in-progress blockwise request grows.
	ResponseType *CoapType

	messageID uint16
	midSet    bool
}

func NewCoAPMessage(messageType CoapType, messageCode CoapCode) *CoAPMessage {
	return &CoAPMessage{
		Type:      messageType,
		Code:      messageCode,
		Token:     generateToken(6),
		Payload:   NewEmptyPayload(),
		Options:   NewOptions(),
		messageID: generateMessageID(),
		midSet:    true,
	}
}

func NewCoAPMessageId(messageType CoapType, messageCode CoapCode, messageID uint16) *CoAPMessage {
	msg := NewCoAPMessage(messageType, messageCode)
	msg.messageID = messageID
	return msg
}

// MessageID returns the message ID and whether one is currently assigned.
// Messages produced by the blockwise operations leave it unassigned for
// the transport layer to fill in before sending.
func (m *CoAPMessage) MessageID() (uint16, bool) {
	return m.messageID, m.midSet
}

func (m *CoAPMessage) SetMessageID(id uint16) {
	m.messageID = id
	m.midSet = true
}

func (m *CoAPMessage) ClearMessageID() {
	m.messageID = 0
	m.midSet = false
}

// Converts an array of bytes to a Message object.
// An error is returned if a parsing error occurs
func Deserialize(data []byte, sender net.Addr) (*CoAPMessage, error) {
	m, err := deserialize(data, sender)
	if m == nil && err == nil {
		return nil, cerr.NilMessage
	}
	return m, err
}

func deserialize(data []byte, sender net.Addr) (msg *CoAPMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg, err = nil, cerr.TruncatedMessage
		}
	}()

	if len(data) < 4 {
		return nil, cerr.PacketLengthLessThan4
	}

	ver := data[DataHeader] >> 6
	if ver != 1 {
		return nil, cerr.InvalidCoapVersion
	}

	msg = &CoAPMessage{
		Type:    CoapType(data[DataHeader] >> 4 & 0x03),
		Code:    CoapCode(data[DataCode]),
		Payload: NewEmptyPayload(),
		Options: NewOptions(),
		Sender:  sender,
	}
	msg.SetMessageID(binary.BigEndian.Uint16(data[DataMsgIDStart:DataMsgIDEnd]))

	tokenLength := int(data[DataHeader] & 0x0f)
	if tokenLength > 8 {
		return nil, cerr.InvalidTokenLength
	}
	if len(data) < DataTokenStart+tokenLength {
		return nil, cerr.TruncatedMessage
	}
	if tokenLength > 0 {
		msg.Token = make([]byte, tokenLength)
		copy(msg.Token, data[DataTokenStart:DataTokenStart+tokenLength])
	}

	payload, err := msg.Options.Decode(data[DataTokenStart+tokenLength:])
	if err != nil {
		return nil, err
	}
	msg.Payload = NewBytesPayload(payload)

	return msg, nil
}

// Converts a message object to a byte array. Typically done prior to transmission
func Serialize(msg *CoAPMessage) ([]byte, error) {
	if msg == nil {
		return nil, cerr.NilMessage
	}
	if !msg.midSet {
		return nil, cerr.IncompleteMessage
	}
	if msg.Options == nil {
		msg.Options = NewOptions()
	}

	messageID := []byte{0, 0}
	binary.BigEndian.PutUint16(messageID, msg.messageID)

	buf := bytes.Buffer{}
	buf.WriteByte((1 << 6) | (uint8(msg.Type) << 4) | (0x0f & msg.GetTokenLength()))
	buf.WriteByte(byte(msg.Code))
	buf.Write(messageID)
	buf.Write(msg.Token)

	optData, err := msg.Options.Encode()
	if err != nil {
		return nil, err
	}
	buf.Write(optData)

	if msg.Payload != nil && msg.Payload.Length() > 0 {
		buf.WriteByte(PayloadMarker)
		buf.Write(msg.Payload.Bytes())
	}

	return buf.Bytes(), nil
}

// Clone deep-copies the message. Token bytes, options and (optionally)
// payload bytes are duplicated so the copy can be mutated freely.
func (m *CoAPMessage) Clone(includePayload bool) *CoAPMessage {
	clone := &CoAPMessage{
		Type:      m.Type,
		Code:      m.Code,
		Options:   m.Options.Clone(),
		Payload:   NewEmptyPayload(),
		Sender:    m.Sender,
		Recipient: m.Recipient,
		messageID: m.messageID,
		midSet:    m.midSet,
	}
	if len(m.Token) > 0 {
		clone.Token = make([]byte, len(m.Token))
		copy(clone.Token, m.Token)
	}
	if includePayload && m.Payload != nil {
		payload := make([]byte, m.Payload.Length())
		copy(payload, m.Payload.Bytes())
		clone.Payload = NewBytesPayload(payload)
	}
	return clone
}

func (m *CoAPMessage) IsRequest() bool {
	return m.Code.IsRequest()
}

func (m *CoAPMessage) IsResponse() bool {
	return m.Code.IsResponse()
}

func (m *CoAPMessage) GetMethod() CoapMethod {
	switch m.Code {
	case GET:
		return CoapMethodGet
	case POST:
		return CoapMethodPost
	case PUT:
		return CoapMethodPut
	case DELETE:
		return CoapMethodDelete
	default:
		return 0
	}
}

func (m *CoAPMessage) GetTokenLength() uint8 {
	return uint8(len(m.Token))
}

func (m *CoAPMessage) GetTokenString() string {
	return string(m.Token[:])
}

func (m *CoAPMessage) GetMessageIDString() string {
	return strconv.Itoa(int(m.messageID))
}

func (m *CoAPMessage) GetPayload() []byte {
	return m.Payload.Bytes()
}

func (m *CoAPMessage) SetStringPayload(s string) {
	m.Payload = NewStringPayload(s)
}

func (m *CoAPMessage) SetToken(t string) {
	m.Token = []byte(t)
}

func (m *CoAPMessage) SetMediaType(mt MediaType) {
	m.Options.SetContentFormat(mt)
}

// Add an Option to the message. If an option is not repeatable, it will replace
// any existing defined Option of the same type
func (m *CoAPMessage) AddOption(code OptionCode, value OptionValue) {
	opt := NewOption(code, value)
	if !opt.IsRepeatableOption() {
		m.Options.Remove(code)
	}
	m.Options.Add(code, value)
}

// Returns the first option found for a given option code
func (m *CoAPMessage) GetOption(id OptionCode) *CoAPMessageOption {
	return m.Options.Get(id)
}

// Returns an array of options given an option code
func (m *CoAPMessage) GetOptions(id OptionCode) []*CoAPMessageOption {
	return m.Options.GetAll(id)
}

// Removes an Option
func (m *CoAPMessage) RemoveOptions(id OptionCode) {
	m.Options.Remove(id)
}

func (m *CoAPMessage) GetOptionsAsString(id OptionCode) (str []string) {
	for _, o := range m.Options.GetAll(id) {
		str = append(str, o.StringValue())
	}
	return
}

func (m *CoAPMessage) SetURIPath(fullPath string) {
	var segments []string
	for _, path := range strings.Split(fullPath, "/") {
		if path != "" {
			segments = append(segments, path)
		}
	}
	m.Options.SetURIPath(segments)
}

func (m *CoAPMessage) GetURIPath() string {
	return "/" + strings.Join(m.Options.URIPath(), "/")
}

func (m *CoAPMessage) SetURIQuery(k string, v string) {
	m.Options.Add(OptionURIQuery, OpaqueValue(k+"="+v))
}

func (m *CoAPMessage) GetURIQueryString() string {
	return strings.Join(m.Options.URIQuery(), "&")
}

func (m *CoAPMessage) GetURIQueryArray() []string {
	return m.Options.URIQuery()
}

func (m *CoAPMessage) GetURIQuery(q string) string {
	for _, v := range m.GetURIQueryArray() {
		kv := strings.SplitN(v, "=", 2)
		if len(kv) == 2 && kv[0] == q {
			return kv[1]
		}
	}
	return ""
}

func (m *CoAPMessage) GetBlock1() *Block {
	return m.Options.Block1()
}

func (m *CoAPMessage) GetBlock2() *Block {
	return m.Options.Block2()
}

func (m *CoAPMessage) SetBlock1(block *Block) {
	m.Options.SetBlock1(block)
}

func (m *CoAPMessage) SetBlock2(block *Block) {
	m.Options.SetBlock2(block)
}

// Keys identifying the blockwise exchange a message belongs to. A
// transfer is correlated by token and peer address, independent of the
// per-datagram message ID.
func (m *CoAPMessage) GetBlockwiseKeyForReceive() string {
	return m.Sender.String() + m.GetTokenString()
}

func (m *CoAPMessage) GetBlockwiseKeyForSend(address net.Addr) string {
	return address.String() + m.GetTokenString()
}

func ParseQuery(query string) (values map[string][]string) {
	values = make(map[string][]string)
	for query != "" {
		params := strings.SplitN(query, "&", 2)

		switch len(params) {
		case 0, 1:
			query = ""
		case 2:
			query = params[1]
		}

		processParams(params[0], values)
	}

	return values
}

func processParams(p string, values map[string][]string) {
	kv := strings.SplitN(p, "=", 2)
	if len(kv) != 2 {
		return
	}

	key := kv[0]
	value := unescapeString(kv[1])

	if values[key] == nil {
		values[key] = []string{}
	}
	values[key] = append(values[key], value)
}

func EscapeString(s string) string {
	return strings.Replace(s, "&", "%26", -1)
}

func unescapeString(s string) string {
	return strings.Replace(s, "%26", "&", -1)
}
