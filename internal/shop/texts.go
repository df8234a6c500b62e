package shop

import (
	"fmt"

	"albumbot/core/telegram/format"
)

const (
	textStartHint     = "Hello! Please type /start to see the album cover and buttons."
	textMediaHint     = "Please send a text message. Type /start to begin."
	textCancelled     = "Operation canceled. You can start again by typing /start."
	textHelp          = "This bot sells a single digital album.\n\n/start - show the album cover and the Buy button\n/cancel - abort the current purchase\n/help - this message"
	textPong          = "pong"
	textCoverCaption  = "This is the album sales bot. Please click the button below to buy it:"
	textButtonBuy     = "Buy Album"
	textNamePrompt    = "Please provide your name:"
	textInvalidPhone  = "Please enter a valid phone number in the format +2519xxxxxxxx or 09xxxxxxxx."
	textProofAck      = "Thank you for the screenshot! We will verify your payment and send you the download link shortly."
	textProofPrompt   = "Please send a screenshot of your payment."
	textNotVerified   = "Unfortunately, we could not verify your payment. Please try again."
	textButtonApprove = "Send download link"
	textButtonReject  = "Not paid"
	textAdminApproved = "Download link sent to the user."
	textAdminRejected = "User has been notified of payment failure."
)

func phonePrompt(name string) string {
	return "Thank you, " + name + "! Please provide your phone number in the format +2519xxxxxxxx or 09xxxxxxxx.\n\nType /cancel to cancel the current operation."
}

func downloadLinkText(url string) string {
	return fmt.Sprintf("Payment verified! Here is your download link: [Download Album](%s)", url)
}

func adminSummary(sess Session) string {
	return fmt.Sprintf("User %d provided the following information:\n\nName: %s\nPhone: %s",
		sess.UserID, format.EscapeMarkdown(sess.Name), format.EscapeMarkdown(sess.Phone))
}

func adminProofCaption(userID int64) string {
	return fmt.Sprintf("Payment screenshot from user %d", userID)
}
