package coapmsg_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/extensions/table"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/coalalib/coapmsg"
	cerr "github.com/coalalib/coapmsg/errors"
)

var _ = Describe("Message", func() {
	Describe("Serialize message", func() {
		var (
			message  *CoAPMessage
			datagram []byte
			err      error
		)

		BeforeEach(func() {
			message = NewCoAPMessage(CON, GET)
			datagram, err = Serialize(message)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			message = nil
		})

		Context("With correct Message ID", func() {
			It("Should correct serialize message id", func() {
				uint16DatagramSlice := binary.BigEndian.Uint16(datagram[2:4])
				mid, ok := message.MessageID()
				Expect(ok).To(BeTrue())
				Expect(uint16DatagramSlice).Should(Equal(mid))
			})
		})

		Context("With correct Version", func() {
			It("Should correct serialize version", func() {
				Expect(datagram[0] >> 6).Should(Equal(uint8(1)))
			})
		})

		Context("With Type", func() {
			DescribeTable("Check each type",
				func(expectedType CoapType) {
					message.Type = expectedType
					datagram, err = Serialize(message)
					Expect(err).NotTo(HaveOccurred())
					Expect(datagram[0] >> 4 & 3).To(Equal(uint8(expectedType)))
				},
				Entry("CON", CON),
				Entry("NON", NON),
				Entry("ACK", ACK),
				Entry("RST", RST),
			)
		})

		Context("With Token", func() {
			It("Should pack the token length into the header", func() {
				Expect(datagram[0] & 0x0f).To(Equal(message.GetTokenLength()))
			})

			It("Should place the token right after the header", func() {
				Expect(datagram[4 : 4+message.GetTokenLength()]).To(Equal(message.Token))
			})
		})

		Context("Without Message ID", func() {
			It("Should fail with IncompleteMessage", func() {
				message.ClearMessageID()
				_, err = Serialize(message)
				Expect(err).To(Equal(cerr.IncompleteMessage))
			})
		})

		Context("With empty payload", func() {
			It("Should not emit the payload marker", func() {
				message.SetMessageID(0x0102)
				datagram, err = Serialize(message)
				Expect(err).NotTo(HaveOccurred())
				Expect(datagram).NotTo(ContainElement(byte(0xff)))
			})
		})

		Context("With payload", func() {
			It("Should emit exactly one marker before the payload", func() {
				message.SetStringPayload("hello")
				datagram, err = Serialize(message)
				Expect(err).NotTo(HaveOccurred())
				markerPos := len(datagram) - 6
				Expect(datagram[markerPos]).To(Equal(byte(0xff)))
				Expect(string(datagram[markerPos+1:])).To(Equal("hello"))
			})
		})
	})

	Describe("Deserialize message", func() {
		It("Should reject datagrams shorter than a header", func() {
			_, err := Deserialize([]byte{0x40, 0x01}, nil)
			Expect(err).To(Equal(cerr.PacketLengthLessThan4))
		})

		It("Should reject versions other than 1 before touching options", func() {
			// Version 2 in the top bits, followed by garbage options.
			_, err := Deserialize([]byte{0x80, 0x01, 0x00, 0x01, 0xf0}, nil)
			Expect(err).To(Equal(cerr.InvalidCoapVersion))
		})

		It("Should reject token lengths above 8", func() {
			// Reserved token lengths are treated as malformed, unlike the
			// permissive behavior of some older stacks.
			data := []byte{0x49, 0x01, 0x00, 0x01, 1, 2, 3, 4, 5, 6, 7, 8, 9}
			_, err := Deserialize(data, nil)
			Expect(err).To(Equal(cerr.InvalidTokenLength))
		})

		It("Should treat a missing payload marker as an empty payload", func() {
			msg, err := Deserialize([]byte{0x40, 0x01, 0x30, 0x39}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Payload).NotTo(BeNil())
			Expect(msg.Payload.Length()).To(Equal(0))
		})

		It("Should attach the sender to the message", func() {
			addr := &mockAddr{}
			msg, err := Deserialize([]byte{0x40, 0x01, 0x30, 0x39}, addr)
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Sender).To(Equal(addr))
		})
	})

	Describe("Round trip", func() {
		It("Should survive encoding and decoding field for field", func() {
			message := NewCoAPMessage(CON, POST)
			message.SetToken("abc123")
			message.SetURIPath("/registry/devices")
			message.SetURIQuery("page", "2")
			message.SetMediaType(MediaTypeApplicationJSON)
			message.Options.SetObserve(5)
			message.Options.SetETag([]byte{0xca, 0xfe})
			message.SetBlock2(NewBlock(true, 3, 2))
			message.SetStringPayload("body bytes")

			datagram, err := Serialize(message)
			Expect(err).NotTo(HaveOccurred())

			decoded, err := Deserialize(datagram, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(decoded.Type).To(Equal(message.Type))
			Expect(decoded.Code).To(Equal(message.Code))
			mid, _ := message.MessageID()
			decodedMid, ok := decoded.MessageID()
			Expect(ok).To(BeTrue())
			Expect(decodedMid).To(Equal(mid))
			Expect(decoded.Token).To(Equal(message.Token))
			Expect(decoded.GetURIPath()).To(Equal("/registry/devices"))
			Expect(decoded.GetURIQuery("page")).To(Equal("2"))
			mt, ok := decoded.Options.ContentFormat()
			Expect(ok).To(BeTrue())
			Expect(mt).To(Equal(MediaTypeApplicationJSON))
			observe, ok := decoded.Options.Observe()
			Expect(ok).To(BeTrue())
			Expect(observe).To(Equal(uint32(5)))
			Expect(decoded.Options.ETag()).To(Equal([]byte{0xca, 0xfe}))
			Expect(decoded.GetBlock2()).To(Equal(NewBlock(true, 3, 2)))
			Expect(decoded.Payload.String()).To(Equal("body bytes"))
		})
	})
})

type mockAddr struct{}

func (a *mockAddr) Network() string { return "udp" }
func (a *mockAddr) String() string  { return "127.0.0.1:5683" }
