package service

import (
	"fmt"
	"log"
	"time"

	"anoa.com/habitloop/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

type SearchService interface {
	IndexActivity(activity *model.Activity) error
	DeleteActivity(id string) error
	GenerateSearchToken(userID string) (string, error)
}

type searchService struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"user_id", "period", "archived"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("activities").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update activities filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	_, err = s.client.Index("activities").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update activities sortable attributes: %v", err)
	}
}

func (s *searchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			return
		}
	}

	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"activities"},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
}

type meiliActivityDoc struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Period      string `json:"period"`
	Archived    bool   `json:"archived"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *searchService) IndexActivity(activity *model.Activity) error {
	doc := meiliActivityDoc{
		ID:          activity.ID.String(),
		UserID:      activity.UserID.String(),
		Title:       activity.Title,
		Description: activity.Description,
		Period:      activity.Period,
		Archived:    activity.Archived,
		CreatedAt:   activity.CreatedAt.Unix(),
	}

	_, err := s.client.Index("activities").AddDocuments([]meiliActivityDoc{doc}, strPtr("id"))
	return err
}

func (s *searchService) DeleteActivity(id string) error {
	_, err := s.client.Index("activities").DeleteDocument(id)
	return err
}

// GenerateSearchToken signs a tenant token scoped to the requesting
// user's own documents.
func (s *searchService) GenerateSearchToken(userID string) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		"activities": map[string]any{
			"filter": fmt.Sprintf("user_id = %s", userID),
		},
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func strPtr(s string) *string {
	return &s
}
