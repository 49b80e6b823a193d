// jsonlines.go — newline-delimited JSON sink.
//
// Mirrors each rendered line into a structured record for log shippers
// that expect JSON lines rather than the plain-text prefix format.

package sink

import (
	"io"
	"sync"

	"github.com/sugawarayuuta/sonnet"
)

// JSONLines encodes one JSON object per line written to it: the producer
// id, the timestamp in seconds, and the rendered message text.
type JSONLines struct {
	w  io.Writer
	mu sync.Mutex
}

// NewJSONLines wraps w; JSONLines is safe to share across drain loop
// calls even though the drain loop itself is single-threaded, since a
// caller may also hold a reference for diagnostics.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

type lineRecord struct {
	ProducerID uint32  `json:"producer_id"`
	Seconds    float64 `json:"seconds"`
	Message    string  `json:"message"`
}

// WriteRecord marshals one log line as a JSON object followed by a
// newline.
func (j *JSONLines) WriteRecord(producerID uint32, seconds float64, message string) error {
	rec := lineRecord{ProducerID: producerID, Seconds: seconds, Message: message}
	encoded, err := sonnet.Marshal(rec)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.w.Write(encoded); err != nil {
		return err
	}
	_, err = j.w.Write([]byte{'\n'})
	return err
}

// Write implements Sink by treating p as an already-rendered plain-text
// line and wrapping it in a record with no producer/timestamp context.
func (j *JSONLines) Write(p []byte) (int, error) {
	if err := j.WriteRecord(0, 0, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
