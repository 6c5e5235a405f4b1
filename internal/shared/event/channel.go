package event

// Channel is the closed set of delivery channels for issued codes.
type Channel string

const (
	ChannelUnknown Channel = ""
	ChannelEmail   Channel = "EMAIL"
	ChannelSMS     Channel = "SMS"
	ChannelChat    Channel = "CHAT"
)

// ChannelFromString parses a channel name. Unrecognized names yield
// ChannelUnknown, which callers must reject before dispatch.
func ChannelFromString(s string) Channel {
	switch s {
	case ChannelEmail.String():
		return ChannelEmail
	case ChannelSMS.String():
		return ChannelSMS
	case ChannelChat.String():
		return ChannelChat
	default:
		return ChannelUnknown
	}
}

// String returns the channel name.
func (c Channel) String() string {
	return string(c)
}

// Known reports whether the channel is part of the closed set.
func (c Channel) Known() bool {
	return c == ChannelEmail || c == ChannelSMS || c == ChannelChat
}
