// Package delivery defines the outbound message contract and the error
// taxonomy the evaluator reacts to.
package delivery

import (
	"context"
	"errors"
)

// Delivery outcomes. Senders wrap their transport errors in exactly one of
// these so the evaluator can decide bookkeeping without knowing the transport.
var (
	// ErrUnreachable means the user can no longer be reached (blocked the
	// bot, deleted the chat). Permanent: the user gets deactivated.
	ErrUnreachable = errors.New("recipient unreachable")

	// ErrRateLimited means the transport asked to back off. The occurrence
	// stays unrecorded and retries on a later tick within its window.
	ErrRateLimited = errors.New("delivery rate limited")

	// ErrTransient covers every other failure worth retrying.
	ErrTransient = errors.New("transient delivery failure")
)

// Sender delivers one text message to one chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}
