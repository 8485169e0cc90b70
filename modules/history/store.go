package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/example/roomchat/domain/chat"
	"github.com/example/roomchat/modules/chat"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the append-only per-room message log backing the broadcast hub.
// It hands out room-scoped monotonic sequence numbers from an in-memory
// counter seeded from the database on first reference, so sequences survive
// restarts without a read-modify-write on every append.
type Store struct {
	mu      sync.Mutex
	db      *gorm.DB
	nextSeq map[string]int64 // room -> last assigned sequence
}

var _ chat.MessageStore = (*Store)(nil)

// NewStore creates a store with no database attached. Append reports
// storage unavailable until setDB is called; the module attaches the
// database when it starts.
func NewStore() *Store {
	return &Store{
		nextSeq: make(map[string]int64),
	}
}

// setDB attaches the opened database.
func (s *Store) setDB(db *gorm.DB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db = db
	s.nextSeq = make(map[string]int64)
}

// lastSeqLocked returns the last assigned sequence for room, loading it
// from the database on the room's first reference. Caller holds s.mu.
func (s *Store) lastSeqLocked(room string) (int64, error) {
	if seq, ok := s.nextSeq[room]; ok {
		return seq, nil
	}
	var max int64
	err := s.db.Model(&MessageRecord{}).
		Where("room = ?", room).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	s.nextSeq[room] = max
	return max, nil
}

// Append durably records the message and returns its sequence number. Any
// backend failure maps to chat.ErrStorageUnavailable and assigns nothing.
func (s *Store) Append(ctx context.Context, room, username, content string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, chat.ErrStorageUnavailable
	}

	last, err := s.lastSeqLocked(room)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", chat.ErrStorageUnavailable, err)
	}
	seq := last + 1

	rec := MessageRecord{
		ID:        uuid.New().String(),
		Room:      room,
		Seq:       seq,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", chat.ErrStorageUnavailable, err)
	}

	s.nextSeq[room] = seq
	return seq, nil
}

// History returns every message appended to room, oldest first. Each call
// re-reads the full log from the database.
func (s *Store) History(ctx context.Context, room string) ([]domain.Message, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()

	if db == nil {
		return nil, chat.ErrStorageUnavailable
	}

	var records []MessageRecord
	err := db.WithContext(ctx).
		Where("room = ?", room).
		Order("seq ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrStorageUnavailable, err)
	}

	messages := make([]domain.Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, domain.Message{
			Room:     rec.Room,
			Username: rec.Username,
			Content:  rec.Content,
			Seq:      rec.Seq,
			SentAt:   rec.CreatedAt,
		})
	}
	return messages, nil
}
