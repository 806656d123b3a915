package event

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/osse101/ItemVault_Go/internal/logger"
)

// DeadLetterFormat versions the JSONL record layout.
const DeadLetterFormat = "1"

// DeadLetter is one undeliverable event, one JSON object per line.
type DeadLetter struct {
	Format      string    `json:"format"`
	FailedAt    time.Time `json:"failed_at"`
	CharacterID int64     `json:"character_id,omitempty"`
	Attempts    int       `json:"attempts"`
	Error       string    `json:"error,omitempty"`
	Event       Event     `json:"event"`
}

// DeadLetterWriter appends undeliverable events to a JSONL file.
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewDeadLetterWriter opens path for appending, creating it if needed.
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgOpenDeadLetter, err)
	}
	return &DeadLetterWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Write records evt after attempts failed deliveries.
func (w *DeadLetterWriter) Write(evt Event, attempts int, cause error) error {
	record := DeadLetter{
		Format:      DeadLetterFormat,
		FailedAt:    time.Now().UTC(),
		CharacterID: characterOf(evt),
		Attempts:    attempts,
		Event:       evt,
	}
	if cause != nil {
		record.Error = cause.Error()
	}

	logger.FromContext(context.Background()).Warn(LogMsgEventDeadLettered,
		"event_type", evt.Type,
		"character_id", record.CharacterID,
		"attempts", attempts,
		"error", cause)

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(record)
}

// Close closes the underlying file.
func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// ReadDeadLetters parses every record in a dead-letter file. Blank lines are
// skipped; a malformed line fails with its line number.
func ReadDeadLetters(path string) ([]DeadLetter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []DeadLetter
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), DeadLetterMaxLineBytes)
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record DeadLetter
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		records = append(records, record)
	}
	return records, scanner.Err()
}

// characterOf reads the routing character id from metadata, falling back to
// the notification payload.
func characterOf(evt Event) int64 {
	switch v := evt.GetMetadataValue(MetadataKeyCharacterID).(type) {
	case string:
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return id
		}
	case int64:
		return v
	}
	if n, err := NotificationFrom(evt); err == nil {
		return n.CharacterID
	}
	return 0
}
