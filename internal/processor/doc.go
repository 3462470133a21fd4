// Package processor turns labeled unread messages into saved attachments.
//
// Processor handles one message: it walks the parts, saves every matching
// attachment and then applies a disposition exactly once. When nothing was
// saved the message is always marked read so it leaves the unread query.
//
// Runner drives one pass over every unread message with the target label.
// Errors are isolated per message; the pass reports a Summary with a result
// for each message.
package processor
