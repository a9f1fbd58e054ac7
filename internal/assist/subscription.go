package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/cv-editor/internal/llm"
)

// ErrClosed is returned by Wait when the subscription ended without a result.
var ErrClosed = errors.New("assist subscription closed before completion")

// Update is one progress notification. Text holds everything received so
// far. The final update has Done set and carries either Result or Err.
type Update struct {
	Delta  string  `json:"delta,omitempty"`
	Text   string  `json:"text"`
	Done   bool    `json:"done"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// Subscription delivers the progress of one running assist. Closing it
// aborts the generation and stops delivery; the Updates channel is then
// closed.
type Subscription struct {
	kind    Kind
	updates chan Update
	ctx     context.Context
	cancel  context.CancelFunc
}

func newSubscription(ctx context.Context, cancel context.CancelFunc, kind Kind) *Subscription {
	return &Subscription{
		kind:    kind,
		updates: make(chan Update),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Kind returns the task being run.
func (s *Subscription) Kind() Kind {
	return s.kind
}

// Updates returns the progress channel. It is closed after the final update
// or once the subscription is closed.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
}

// Wait drains the remaining updates and returns the outcome.
func (s *Subscription) Wait() (*Result, error) {
	for u := range s.updates {
		if u.Done {
			return u.Result, u.Err
		}
	}
	return nil, ErrClosed
}

func (s *Subscription) send(u Update) bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case s.updates <- u:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// pump accumulates the stream, forwarding each chunk, and parses the full
// text once the stream completes.
func (s *Subscription) pump(stream <-chan llm.Chunk) (text string, err error) {
	defer close(s.updates)
	defer s.cancel()

	var sb strings.Builder
	for {
		select {
		case <-s.ctx.Done():
			return sb.String(), s.ctx.Err()
		case chunk, ok := <-stream:
			if !ok {
				if s.ctx.Err() != nil {
					return sb.String(), s.ctx.Err()
				}
				err := fmt.Errorf("stream closed before completion")
				s.send(Update{Text: sb.String(), Done: true, Err: err})
				return sb.String(), err
			}
			sb.WriteString(chunk.Text)
			if !chunk.Done {
				if chunk.Text != "" && !s.send(Update{Delta: chunk.Text, Text: sb.String()}) {
					return sb.String(), s.ctx.Err()
				}
				continue
			}

			final := Update{Delta: chunk.Text, Text: sb.String(), Done: true}
			if chunk.Err != nil {
				final.Err = fmt.Errorf("generation failed: %w", chunk.Err)
			} else {
				final.Result, final.Err = Parse(s.kind, sb.String())
			}
			s.send(final)
			return sb.String(), final.Err
		}
	}
}
