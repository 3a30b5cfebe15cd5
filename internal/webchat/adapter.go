package webchat

import (
	"github.com/wolfman30/reservation-assistant/internal/conversation"
)

// replyFrame wraps a turn result for the widget. A failed turn still gets a
// reply frame carrying the generic apology so the widget renders it like
// any other bot message.
func replyFrame(resp *conversation.Response, err error) OutboundMessage {
	if err != nil || resp == nil {
		return OutboundMessage{Type: "reply", Reply: conversation.ErrorResponse()}
	}
	return OutboundMessage{Type: "reply", Reply: resp}
}
