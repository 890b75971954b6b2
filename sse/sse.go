// Package sse decodes a text/event-stream body into [coverletter.StreamMessage]
// values.
//
// Only the "event: " and "data: " fields are recognized. Within one message the
// last data line wins. A blank line terminates the message; input that ends
// without a terminating blank line never completes and is discarded.
package sse

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/fwojciec/coverletter"
)

const (
	eventPrefix = "event: "
	dataPrefix  = "data: "
)

// Decoder reads StreamMessage values from an event stream.
// It does not close the underlying reader.
type Decoder struct {
	r       *bufio.Reader
	event   string
	data    string
	hasData bool
	err     error // sticky terminal error
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next complete message. It returns io.EOF when the input
// ends; a message still being assembled at that point is dropped.
func (d *Decoder) Next() (coverletter.StreamMessage, error) {
	if d.err != nil {
		return coverletter.StreamMessage{}, d.err
	}
	for {
		// ReadString works on bytes, so a multi-byte rune split across reads
		// of the underlying body is reassembled before the line is inspected.
		line, err := d.r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				d.err = io.EOF
			} else {
				d.err = fmt.Errorf("sse: %w", err)
			}
			return coverletter.StreamMessage{}, d.err
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		line = strings.ToValidUTF8(line, "\uFFFD")

		if line == "" {
			msg, ok := d.flush()
			if ok {
				return msg, nil
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, eventPrefix):
			d.event = strings.TrimSpace(line[len(eventPrefix):])
		case strings.HasPrefix(line, dataPrefix):
			d.data = line[len(dataPrefix):]
			d.hasData = true
		}
		// Comments, id:, retry: and unknown fields are ignored.
	}
}

// flush resets the pending fields and reports whether they formed a message.
func (d *Decoder) flush() (coverletter.StreamMessage, bool) {
	msg := coverletter.StreamMessage{Event: d.event, Data: d.data}
	ok := d.hasData
	d.event, d.data, d.hasData = "", "", false
	return msg, ok
}

// Messages returns an iterator over the remaining messages. Iteration stops
// at end of input; any other read error is yielded once as the final pair.
func (d *Decoder) Messages() iter.Seq2[coverletter.StreamMessage, error] {
	return func(yield func(coverletter.StreamMessage, error) bool) {
		for {
			msg, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(coverletter.StreamMessage{}, err)
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

// DecodeAll reads every complete message from r.
func DecodeAll(r io.Reader) ([]coverletter.StreamMessage, error) {
	var msgs []coverletter.StreamMessage
	for msg, err := range NewDecoder(r).Messages() {
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
