package coapmsg

import (
	"bytes"

	cerr "github.com/coalalib/coapmsg/errors"
)

// ExtractBlock cuts the numbered block out of the message payload and
// returns it as a standalone message carrying the matching Block1
// (requests) or Block2 (responses) descriptor. The message ID is left
// unassigned for the transport layer. Returns nil when the block number
// is past the end of the payload.
func (m *CoAPMessage) ExtractBlock(number, szx int) *CoAPMessage {
	size := 1 << uint(szx+4)
	start := number * size
	total := m.Payload.Length()
	if start >= total {
		return nil
	}

	end := start + size
	if end > total {
		end = total
	}

	block := m.Clone(false)
	payload := make([]byte, end-start)
	copy(payload, m.Payload.Bytes()[start:end])
	block.Payload = NewBytesPayload(payload)
	block.ClearMessageID()

	more := end < total
	if m.Code.IsRequest() {
		block.Options.SetBlock1(NewBlock(more, number, szx))
	} else {
		block.Options.SetBlock2(NewBlock(more, number, szx))
	}

	return block
}

// AppendRequestBlock grows an in-progress blockwise request with the next
// incoming block. The block must start exactly where the accumulated
// payload ends; anything else means a lost, duplicated or reordered
// datagram and the reassembly must be aborted by the caller.
func (m *CoAPMessage) AppendRequestBlock(nextBlock *CoAPMessage) error {
	if !m.Code.IsRequest() {
		return cerr.NotARequest
	}

	block1 := nextBlock.GetBlock1()
	if block1 == nil {
		return cerr.MissingBlock
	}
	if block1.BlockNumber*block1.Size() != m.Payload.Length() {
		return cerr.BlockOutOfOrder
	}

	m.appendBlock(nextBlock)
	m.Options.SetBlock1(block1)

	// The request is still growing, so any previously decided response
	// disposition no longer holds.
	m.ResponseType = nil

	return nil
}

// AppendResponseBlock grows an in-progress blockwise response. Beyond the
// contiguity check it verifies the ETag did not change between blocks: a
// changed ETag means the resource was modified mid-transfer and the
// partial reassembly must be discarded.
func (m *CoAPMessage) AppendResponseBlock(nextBlock *CoAPMessage) error {
	if !m.Code.IsResponse() {
		return cerr.NotAResponse
	}

	block2 := nextBlock.GetBlock2()
	if block2 == nil {
		return cerr.MissingBlock
	}
	if block2.BlockNumber*block2.Size() != m.Payload.Length() {
		return cerr.BlockOutOfOrder
	}
	if !bytes.Equal(nextBlock.Options.ETag(), m.Options.ETag()) {
		return cerr.ResourceChanged
	}

	m.appendBlock(nextBlock)
	m.Options.SetBlock2(block2)

	return nil
}

func (m *CoAPMessage) appendBlock(nextBlock *CoAPMessage) {
	payload := append(m.Payload.Bytes(), nextBlock.Payload.Bytes()...)
	m.Payload = NewBytesPayload(payload)
	m.Token = nextBlock.Token
	if mid, ok := nextBlock.MessageID(); ok {
		m.SetMessageID(mid)
	} else {
		m.ClearMessageID()
	}
}

// GenerateNextBlock2Request derives from the original request the fetch
// for the response block after the one just received. When the server's
// first block is larger than our default, the transfer is renegotiated
// down: the next request asks for the first default-sized sub-block that
// lies beyond the data already delivered.
func (m *CoAPMessage) GenerateNextBlock2Request(response *CoAPMessage) *CoAPMessage {
	block2 := response.GetBlock2()
	if block2 == nil {
		return nil
	}

	request := m.Clone(false)
	request.ClearMessageID()

	if block2.BlockNumber == 0 && block2.SizeExponent > DEFAULT_BLOCK_SIZE_EXPONENT {
		newBlockNumber := 1 << uint(block2.SizeExponent-DEFAULT_BLOCK_SIZE_EXPONENT)
		request.Options.SetBlock2(NewBlock(false, newBlockNumber, DEFAULT_BLOCK_SIZE_EXPONENT))
	} else {
		request.Options.SetBlock2(NewBlock(false, block2.BlockNumber+1, block2.SizeExponent))
	}

	// A continuation fetch carries no request body and is not an
	// observation registration.
	request.Options.Remove(OptionBlock1)
	request.Options.Remove(OptionObserve)

	return request
}

// GenerateNextBlock1Response builds the acknowledgement a server returns
// for a non-final request block, echoing the client's block descriptor or
// negotiating the size down on the first block.
func (m *CoAPMessage) GenerateNextBlock1Response() *CoAPMessage {
	block1 := m.GetBlock1()
	if block1 == nil {
		return nil
	}

	response := &CoAPMessage{
		Type:      ACK,
		Code:      CoapCodeChanged,
		Payload:   NewEmptyPayload(),
		Options:   NewOptions(),
		Recipient: m.Sender,
	}
	if len(m.Token) > 0 {
		response.Token = make([]byte, len(m.Token))
		copy(response.Token, m.Token)
	}

	if block1.BlockNumber == 0 && block1.SizeExponent > DEFAULT_BLOCK_SIZE_EXPONENT {
		response.Options.SetBlock1(NewBlock(true, 0, DEFAULT_BLOCK_SIZE_EXPONENT))
	} else {
		response.Options.SetBlock1(NewBlock(true, block1.BlockNumber, block1.SizeExponent))
	}

	return response
}
