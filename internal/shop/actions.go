package shop

// Callback identifiers used on inline keyboards. The decision verbs are
// combined with the buyer's user ID into an action payload of the form
// "<verb>:<userId>" so the admin's button press can be routed back to the
// originating buyer.
const (
	ActionBuy   = "buy_album"
	VerbApprove = "approve"
	VerbReject  = "reject"
)

// Action is an outbound effect produced by the conversation flow. Handlers
// return actions as data; the transport layer executes them. Tests assert on
// the recorded list without touching the network.
type Action interface {
	// Target is the chat the action is addressed to.
	Target() int64
}

// Button is one inline keyboard button attached to an outbound message.
type Button struct {
	Text   string
	Unique string
	Data   string
}

// SendText delivers a text message, optionally with an inline keyboard.
type SendText struct {
	To       int64
	Text     string
	Markdown bool
	Buttons  [][]Button
}

// Target implements Action.
func (a SendText) Target() int64 { return a.To }

// SendImage delivers an image either by transport file reference (a photo
// the bot has already seen) or by local file path.
type SendImage struct {
	To int64
	// FileRef is a transport file identifier, used when re-sending a
	// received photo. Takes precedence over Path.
	FileRef string
	// Path is a local image file to upload.
	Path    string
	Caption string
	Buttons [][]Button
}

// Target implements Action.
func (a SendImage) Target() int64 { return a.To }
