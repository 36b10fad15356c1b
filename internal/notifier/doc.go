// Package notifier delivers bot messages to the configured chat.
//
// Delivery is synchronous and best-effort: a failed send is logged and
// reported to the caller as false, never as a panic or a returned error. Sends
// pass through a token bucket so bursts stay inside the chat API limits.
//
// For debugging, the service keeps a small in-memory history of delivered
// messages.
package notifier
