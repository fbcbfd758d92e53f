package coapmsg

import (
	"bytes"
	"sort"
	"strconv"

	cerr "github.com/coalalib/coapmsg/errors"
)

// Represents an Option for a CoAP Message
type CoAPMessageOption struct {
	Code  OptionCode
	Value OptionValue
}

// Instantiates a New Option
func NewOption(optionNumber OptionCode, optionValue OptionValue) *CoAPMessageOption {
	return &CoAPMessageOption{
		Code:  optionNumber,
		Value: optionValue,
	}
}

// Determines if an option is elective
func (o *CoAPMessageOption) IsElective() bool {
	return (int(o.Code) % 2) == 0
}

// Determines if an option is critical
func (o *CoAPMessageOption) IsCritical() bool {
	return (int(o.Code) % 2) != 0
}

// Checks if an option is repeatable
func (opt *CoAPMessageOption) IsRepeatableOption() bool {
	switch opt.Code {
	case OptionIfMatch, OptionEtag, OptionLocationPath, OptionURIPath, OptionURIQuery, OptionLocationQuery:
		return true
	default:
		return false
	}
}

// Checks if an option/option code is recognizable/valid
func (opt *CoAPMessageOption) IsValidOption() bool {
	switch opt.Code {
	case OptionIfMatch, OptionURIHost, OptionEtag, OptionIfNoneMatch, OptionObserve,
		OptionURIPort, OptionLocationPath, OptionURIPath, OptionContentFormat,
		OptionMaxAge, OptionURIQuery, OptionAccept, OptionLocationQuery,
		OptionBlock2, OptionBlock1, OptionSize2, OptionProxyURI, OptionProxyScheme, OptionSize1:
		return true
	default:
		return false
	}
}

// Returns the string value of an option
func (o *CoAPMessageOption) StringValue() string {
	if str, ok := o.Value.(OpaqueValue); ok {
		return string(str)
	}
	return ""
}

func (o *CoAPMessageOption) IntValue() int {
	switch v := o.Value.(type) {
	case UintValue:
		return int(v)
	case *Block:
		return v.ToInt()
	case OpaqueValue:
		intVal, err := strconv.Atoi(string(v))
		if err != nil {
			return 0
		}
		return intVal
	default:
		return 0
	}
}

// Options is an ordered multi-map of CoAP options. Numbers may repeat;
// insertion order is preserved per number. Serialization always emits
// options in ascending numeric order regardless of insertion order.
type Options struct {
	items []*CoAPMessageOption
}

func NewOptions() *Options {
	return &Options{}
}

// Add appends a value under the given number, preserving arrival order.
func (o *Options) Add(code OptionCode, value OptionValue) {
	o.items = append(o.items, NewOption(code, value))
}

// Get returns the first option stored for the given number, or nil.
func (o *Options) Get(code OptionCode) *CoAPMessageOption {
	for _, opt := range o.items {
		if opt.Code == code {
			return opt
		}
	}
	return nil
}

// GetAll returns every option stored for the given number, in order.
func (o *Options) GetAll(code OptionCode) []*CoAPMessageOption {
	var opts []*CoAPMessageOption
	for _, opt := range o.items {
		if opt.Code == code {
			opts = append(opts, opt)
		}
	}
	return opts
}

// Remove deletes every option stored for the given number.
func (o *Options) Remove(code OptionCode) {
	var opts []*CoAPMessageOption
	for _, opt := range o.items {
		if opt.Code != code {
			opts = append(opts, opt)
		}
	}
	o.items = opts
}

func (o *Options) Len() int {
	return len(o.items)
}

func (o *Options) Clone() *Options {
	clone := NewOptions()
	for _, opt := range o.items {
		clone.items = append(clone.items, NewOption(opt.Code, cloneOptionValue(opt.Value)))
	}
	return clone
}

func cloneOptionValue(v OptionValue) OptionValue {
	switch val := v.(type) {
	case OpaqueValue:
		cp := make(OpaqueValue, len(val))
		copy(cp, val)
		return cp
	case *Block:
		cp := *val
		return &cp
	default:
		return v
	}
}

// Encode serializes all options with delta encoding. The output never
// starts with 0xFF: a delta nibble can be 14 at most.
func (o *Options) Encode() ([]byte, error) {
	sort.SliceStable(o.items, func(i, j int) bool {
		return o.items[i].Code < o.items[j].Code
	})

	buf := bytes.Buffer{}
	lastOptionCode := 0
	for _, opt := range o.items {
		optCode := int(opt.Code)

		deltaNibble, deltaExt, err := writeExtendedFieldValue(optCode - lastOptionCode)
		if err != nil {
			return nil, err
		}

		var value []byte
		if opt.Value != nil {
			value = opt.Value.Encode()
		}
		lengthNibble, lengthExt, err := writeExtendedFieldValue(len(value))
		if err != nil {
			return nil, err
		}

		buf.WriteByte(deltaNibble<<4 | lengthNibble)
		buf.Write(deltaExt)
		buf.Write(lengthExt)
		buf.Write(value)

		lastOptionCode = optCode
	}

	return buf.Bytes(), nil
}

// Decode parses the option sequence from data into the container and
// returns whatever follows the payload marker. No marker means an empty
// payload, which is not an error.
func (o *Options) Decode(data []byte) ([]byte, error) {
	lastOptionID := 0

	for len(data) > 0 {
		if data[0] == PayloadMarker {
			return data[1:], nil
		}

		deltaNibble := data[0] >> 4
		lengthNibble := data[0] & 0x0f
		data = data[1:]

		if deltaNibble == 15 {
			return nil, cerr.OptionDeltaUsesValue15
		}
		if lengthNibble == 15 {
			return nil, cerr.OptionLengthUsesValue15
		}

		delta, rest, err := readExtendedFieldValue(deltaNibble, data)
		if err != nil {
			return nil, err
		}
		length, rest, err := readExtendedFieldValue(lengthNibble, rest)
		if err != nil {
			return nil, err
		}
		data = rest

		lastOptionID += delta
		if length > len(data) {
			return nil, cerr.TruncatedMessage
		}

		optCode := OptionCode(lastOptionID)
		value, err := decodeOptionValue(optCode, data[:length])
		if err != nil {
			return nil, err
		}
		opt := NewOption(optCode, value)
		if !opt.IsValidOption() {
			log.Debug("Unknown Option id " + strconv.Itoa(lastOptionID))
		}
		o.items = append(o.items, opt)

		data = data[length:]
	}

	return nil, nil
}

// setSingle implements the clear-then-set contract of single-valued
// options. A nil value only clears.
func (o *Options) setSingle(code OptionCode, value OptionValue) {
	o.Remove(code)
	if value != nil {
		o.Add(code, value)
	}
}

// SetURIPath replaces all Uri-Path options with one option per segment.
func (o *Options) SetURIPath(segments []string) {
	o.Remove(OptionURIPath)
	for _, segment := range segments {
		o.Add(OptionURIPath, OpaqueValue(segment))
	}
}

func (o *Options) URIPath() []string {
	var segments []string
	for _, opt := range o.GetAll(OptionURIPath) {
		segments = append(segments, opt.StringValue())
	}
	return segments
}

// SetURIQuery replaces all Uri-Query options with one option per segment.
func (o *Options) SetURIQuery(segments []string) {
	o.Remove(OptionURIQuery)
	for _, segment := range segments {
		o.Add(OptionURIQuery, OpaqueValue(segment))
	}
}

func (o *Options) URIQuery() []string {
	var segments []string
	for _, opt := range o.GetAll(OptionURIQuery) {
		segments = append(segments, opt.StringValue())
	}
	return segments
}

func (o *Options) SetBlock1(block *Block) {
	if block == nil {
		o.Remove(OptionBlock1)
		return
	}
	o.setSingle(OptionBlock1, block)
}

func (o *Options) Block1() *Block {
	return o.blockOption(OptionBlock1)
}

func (o *Options) SetBlock2(block *Block) {
	if block == nil {
		o.Remove(OptionBlock2)
		return
	}
	o.setSingle(OptionBlock2, block)
}

func (o *Options) Block2() *Block {
	return o.blockOption(OptionBlock2)
}

func (o *Options) blockOption(code OptionCode) *Block {
	opt := o.Get(code)
	if opt == nil {
		return nil
	}
	if block, ok := opt.Value.(*Block); ok {
		return block
	}
	return NewBlockFromInt(opt.IntValue())
}

func (o *Options) SetContentFormat(mt MediaType) {
	o.setSingle(OptionContentFormat, UintValue(mt))
}

func (o *Options) ContentFormat() (MediaType, bool) {
	opt := o.Get(OptionContentFormat)
	if opt == nil {
		return 0, false
	}
	return MediaType(opt.IntValue()), true
}

func (o *Options) SetAccept(mt MediaType) {
	o.setSingle(OptionAccept, UintValue(mt))
}

func (o *Options) Accept() (MediaType, bool) {
	opt := o.Get(OptionAccept)
	if opt == nil {
		return 0, false
	}
	return MediaType(opt.IntValue()), true
}

func (o *Options) SetObserve(v uint32) {
	o.setSingle(OptionObserve, UintValue(v))
}

func (o *Options) Observe() (uint32, bool) {
	opt := o.Get(OptionObserve)
	if opt == nil {
		return 0, false
	}
	return uint32(opt.IntValue()), true
}

// SetETag sets the single ETag of a response. A nil etag only clears.
func (o *Options) SetETag(etag []byte) {
	if etag == nil {
		o.Remove(OptionEtag)
		return
	}
	o.setSingle(OptionEtag, OpaqueValue(etag))
}

// ETag returns the first ETag on the message, or nil.
func (o *Options) ETag() []byte {
	opt := o.Get(OptionEtag)
	if opt == nil {
		return nil
	}
	if v, ok := opt.Value.(OpaqueValue); ok {
		return []byte(v)
	}
	return nil
}

// SetETags replaces all ETag options, one per tag (request usage).
func (o *Options) SetETags(etags [][]byte) {
	o.Remove(OptionEtag)
	for _, tag := range etags {
		o.Add(OptionEtag, OpaqueValue(tag))
	}
}

func (o *Options) ETags() [][]byte {
	var tags [][]byte
	for _, opt := range o.GetAll(OptionEtag) {
		if v, ok := opt.Value.(OpaqueValue); ok {
			tags = append(tags, []byte(v))
		}
	}
	return tags
}
