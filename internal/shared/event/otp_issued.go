package event

// OTPIssuedDestination is the topic/subject for freshly issued OTP codes.
const OTPIssuedDestination string = "otp_issued"

// OTPIssuedDestinationConsumerDelivery is the consumer channel for the
// delivery module.
const OTPIssuedDestinationConsumerDelivery string = "otp_issued_delivery"

// OTPIssuedMessage is published when an OTP code is generated and must be
// delivered to the user over the requested channel.
type OTPIssuedMessage struct {
	CodeID    int64  `json:"code_id"`
	UserID    int64  `json:"user_id"`
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
}
