package rule

// Extractor codes.
const (
	NoneExtractorCode      uint16 = 0x0000
	EventCodeExtractorCode uint16 = 0x0001
)

// NoneExtractor extracts nothing. Used where a processor needs no value.
type NoneExtractor struct{}

func (*NoneExtractor) ExtractorCode() uint16   { return NoneExtractorCode }
func (*NoneExtractor) PayloadSize() int        { return 0 }
func (*NoneExtractor) MarshalPayload([]byte)   {}
func (*NoneExtractor) UnmarshalPayload([]byte) {}

// EventCodeExtractor extracts the event code of the incoming event.
type EventCodeExtractor struct{}

func (*EventCodeExtractor) ExtractorCode() uint16   { return EventCodeExtractorCode }
func (*EventCodeExtractor) PayloadSize() int        { return 0 }
func (*EventCodeExtractor) MarshalPayload([]byte)   {}
func (*EventCodeExtractor) UnmarshalPayload([]byte) {}
