package idempotency

import "fmt"

// CallbackKey identifies a callback query update.
func CallbackKey(callbackID string) string {
	return fmt.Sprintf("cb:%s", callbackID)
}

// MessageKey identifies a message update within its chat.
func MessageKey(chatID int64, messageID int) string {
	return fmt.Sprintf("msg:%d:%d", chatID, messageID)
}
