package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// Search scopes
const (
	SearchAll    = "all"
	SearchChat   = "chat"
	SearchHealth = "health"
)

// SearchResults groups matches by source
type SearchResults struct {
	Chats         []*domain.ChatHistory  `json:"chats"`
	HealthRecords []*domain.HealthRecord `json:"healthRecords"`
}

// SearchService runs free-text searches over a user's chats and record notes
type SearchService struct {
	chatRepo   domain.ChatHistoryRepository
	recordRepo domain.HealthRecordRepository
}

// NewSearchService creates a new search service
func NewSearchService(chatRepo domain.ChatHistoryRepository, recordRepo domain.HealthRecordRepository) *SearchService {
	return &SearchService{chatRepo: chatRepo, recordRepo: recordRepo}
}

// Search matches q literally, ignoring case. The returned total is the sum of
// matches across the searched sources; an unknown scope searches everything.
func (s *SearchService) Search(ctx context.Context, userID, q, scope string, page domain.Page) (*SearchResults, int64, error) {
	pattern, err := searchPattern(q)
	if err != nil {
		return nil, 0, err
	}

	results := &SearchResults{
		Chats:         []*domain.ChatHistory{},
		HealthRecords: []*domain.HealthRecord{},
	}
	var total int64

	if scope != SearchHealth {
		chats, n, err := s.chatRepo.Search(ctx, userID, domain.ChatSearch{Pattern: pattern}, page)
		if err != nil {
			return nil, 0, err
		}
		if chats != nil {
			results.Chats = chats
		}
		total += n
	}

	if scope != SearchChat {
		records, n, err := s.recordRepo.SearchNotes(ctx, userID, pattern, page)
		if err != nil {
			return nil, 0, err
		}
		if records != nil {
			results.HealthRecords = records
		}
		total += n
	}

	return results, total, nil
}

// SearchChats also matches the detected keywords of each chat
func (s *SearchService) SearchChats(ctx context.Context, userID, q string, page domain.Page) ([]*domain.ChatHistory, int64, error) {
	pattern, err := searchPattern(q)
	if err != nil {
		return nil, 0, err
	}
	return s.chatRepo.Search(ctx, userID, domain.ChatSearch{Pattern: pattern, IncludeKeywords: true}, page)
}

func searchPattern(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", domain.ErrValidation
	}
	return regexp.QuoteMeta(q), nil
}
