package coapmsg

// Represents the payload/content of a CoAP Message
type CoAPMessagePayload interface {
	Bytes() []byte
	Length() int
	String() string
}

// Instantiates a new message payload of type string
func NewStringPayload(s string) CoAPMessagePayload {
	return &StringPayload{
		content: s,
	}
}

// Represents a message payload containing string value
type StringPayload struct {
	content string
}

func (p *StringPayload) Bytes() []byte {
	return []byte(p.content)
}
func (p *StringPayload) Length() int {
	return len(p.content)
}
func (p *StringPayload) String() string {
	return p.content
}

// Represents a message payload containing an array of bytes
func NewBytesPayload(v []byte) CoAPMessagePayload {
	return &BytesPayload{
		content: v,
	}
}

type BytesPayload struct {
	content []byte
}

func (p *BytesPayload) Bytes() []byte {
	return p.content
}
func (p *BytesPayload) Length() int {
	return len(p.content)
}
func (p *BytesPayload) String() string {
	return string(p.content)
}

// NewEmptyPayload is the canonical "no payload" value. A message never
// carries a nil payload, only a zero-length one.
func NewEmptyPayload() CoAPMessagePayload {
	return &EmptyPayload{}
}

// Represents an empty message payload
type EmptyPayload struct{}

func (p *EmptyPayload) Bytes() []byte {
	return []byte{}
}
func (p *EmptyPayload) Length() int {
	return 0
}
func (p *EmptyPayload) String() string {
	return ""
}
