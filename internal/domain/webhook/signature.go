package webhook

// Processor signature headers.
const (
	HeaderTransmissionID   = "Paypal-Transmission-Id"
	HeaderTransmissionTime = "Paypal-Transmission-Time"
	HeaderTransmissionSig  = "Paypal-Transmission-Sig"
)

// SignatureHeaders carries the transmission metadata a delivery is signed with.
type SignatureHeaders struct {
	TransmissionID   string
	TransmissionTime string
	TransmissionSig  string
}

// SignatureVerifier authenticates a delivery before anything else looks at it.
// Failures wrap ErrInvalidSignature.
type SignatureVerifier interface {
	Verify(headers SignatureHeaders, body []byte) error
}
