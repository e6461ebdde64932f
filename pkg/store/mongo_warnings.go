package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// warnDocuments is the slice of database.DataManager the warning store needs
type warnDocuments interface {
	Get(query bson.M) (*models.WarnsDocument, error)
	Set(query bson.M, data interface{}) (*models.WarnsDocument, error)
	Delete(query bson.M) error
}

// MongoWarningStore keeps warnings in the "warns" collection, one
// document per member.
type MongoWarningStore struct {
	docs   warnDocuments
	mu     sync.Mutex
	lastID int64
	now    func() time.Time
}

// NewMongoWarningStore wraps a warns DataManager
func NewMongoWarningStore(docs warnDocuments) *MongoWarningStore {
	return &MongoWarningStore{docs: docs, now: time.Now}
}

func warnQuery(guildID, userID string) bson.M {
	return bson.M{"guildId": guildID, "userId": userID}
}

// AddWarning appends a warning to the member's document
func (s *MongoWarningStore) AddWarning(ctx context.Context, guildID, userID, reason, moderatorID string) (Warning, error) {
	if err := ctx.Err(); err != nil {
		return Warning{}, err
	}

	// read-modify-write on one document
	s.mu.Lock()
	defer s.mu.Unlock()

	query := warnQuery(guildID, userID)
	doc, err := s.docs.Get(query)
	if err != nil {
		return Warning{}, err
	}
	if doc == nil {
		doc = &models.WarnsDocument{GuildID: guildID, UserID: userID}
	}
	for _, existing := range doc.Warns {
		if id := parseWarnID(existing.ID); id > s.lastID {
			s.lastID = id
		}
	}

	w := newWarning(s.now(), &s.lastID, reason, moderatorID)

	updated := &models.WarnsDocument{
		GuildID: guildID,
		UserID:  userID,
		Warns: append(append([]models.Warn{}, doc.Warns...), models.Warn{
			ID:          w.ID,
			Reason:      w.Reason,
			ModeratorID: w.ModeratorID,
			Timestamp:   w.Timestamp.UnixMilli(),
		}),
	}

	if _, err := s.docs.Set(query, updated); err != nil {
		return Warning{}, err
	}
	return w, nil
}

// Warnings returns the member's warnings in issue order
func (s *MongoWarningStore) Warnings(ctx context.Context, guildID, userID string) ([]Warning, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.docs.Get(warnQuery(guildID, userID))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return []Warning{}, nil
	}

	out := make([]Warning, 0, len(doc.Warns))
	for _, w := range doc.Warns {
		out = append(out, Warning{
			ID:          w.ID,
			Reason:      w.Reason,
			ModeratorID: w.ModeratorID,
			Timestamp:   time.UnixMilli(w.Timestamp),
		})
	}
	return out, nil
}

// ClearWarnings deletes the member's document. It returns false if there
// were no warnings.
func (s *MongoWarningStore) ClearWarnings(ctx context.Context, guildID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := warnQuery(guildID, userID)
	doc, err := s.docs.Get(query)
	if err != nil {
		return false, err
	}
	if doc == nil || len(doc.Warns) == 0 {
		return false, nil
	}
	return true, s.docs.Delete(query)
}

func parseWarnID(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}
