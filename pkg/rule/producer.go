package rule

import "encoding/binary"

// Producer codes.
const (
	NoneProducerCode                     uint16 = 0x0000
	BcmChangeBrightnessProducerCode      uint16 = 0x0001
	BcmChangeBrightnessStateProducerCode uint16 = 0x0002
)

// NoneProducer emits nothing.
type NoneProducer struct{}

func (*NoneProducer) ProducerCode() uint16    { return NoneProducerCode }
func (*NoneProducer) PayloadSize() int        { return 0 }
func (*NoneProducer) MarshalPayload([]byte)   {}
func (*NoneProducer) UnmarshalPayload([]byte) {}

// BcmChangeBrightnessProducer sets a fixed brightness on a channel of the
// binary control module at BcmAddress.
type BcmChangeBrightnessProducer struct {
	BcmAddress uint16
	Channel    uint8
	Brightness uint8
}

func (*BcmChangeBrightnessProducer) ProducerCode() uint16 { return BcmChangeBrightnessProducerCode }
func (*BcmChangeBrightnessProducer) PayloadSize() int     { return 4 }

func (p *BcmChangeBrightnessProducer) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint16(b[0:2], p.BcmAddress)
	b[2] = p.Channel
	b[3] = p.Brightness
}

func (p *BcmChangeBrightnessProducer) UnmarshalPayload(b []byte) {
	p.BcmAddress = binary.BigEndian.Uint16(b[0:2])
	p.Channel = b[2]
	p.Brightness = b[3]
}

// BcmChangeBrightnessStateProducer sets a channel's brightness to the value
// held in state slot StateIndex.
type BcmChangeBrightnessStateProducer struct {
	BcmAddress uint16
	Channel    uint8
	StateIndex uint32
}

func (*BcmChangeBrightnessStateProducer) ProducerCode() uint16 {
	return BcmChangeBrightnessStateProducerCode
}
func (*BcmChangeBrightnessStateProducer) PayloadSize() int { return 7 }

func (p *BcmChangeBrightnessStateProducer) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint16(b[0:2], p.BcmAddress)
	b[2] = p.Channel
	binary.BigEndian.PutUint32(b[3:7], p.StateIndex)
}

func (p *BcmChangeBrightnessStateProducer) UnmarshalPayload(b []byte) {
	p.BcmAddress = binary.BigEndian.Uint16(b[0:2])
	p.Channel = b[2]
	p.StateIndex = binary.BigEndian.Uint32(b[3:7])
}
