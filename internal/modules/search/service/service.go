package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	articlesIndex    = "articles"
	signingKeyName   = "TenantTokenSigner"
	searchTokenTTL   = 24 * time.Hour
	signingKeyExpiry = 100
)

// ArticleDocument is the searchable projection of a published article.
type ArticleDocument struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	AuthorID      string `json:"author_id"`
	AuthorName    string `json:"author_name"`
	PublisherKind string `json:"publisher_kind"`
	PublisherName string `json:"publisher_name"`
	ImageURL      string `json:"image_url"`
	PublishedAt   int64  `json:"published_at"`
}

type MeiliSearchService interface {
	IndexArticle(article *entity.Article, authorName, publisherName string) error
	DeleteArticle(id string) error
	GenerateSearchToken() (string, error)
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
	log           *zap.Logger
}

func NewMeiliSearchService(client meilisearch.ServiceManager, log *zap.Logger) MeiliSearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log.Named("search"),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		s.log.Warn("failed to list meilisearch keys", zap.Error(err))
		return
	}

	for _, key := range resp.Results {
		if key.Name == signingKeyName {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			s.log.Info("found existing meilisearch signing key")
			return
		}
	}

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        signingKeyName,
		Actions:     []string{"search"},
		Indexes:     []string{articlesIndex},
		ExpiresAt:   time.Now().AddDate(signingKeyExpiry, 0, 0),
	})
	if err != nil {
		s.log.Warn("failed to create meilisearch signing key", zap.Error(err))
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	s.log.Info("created meilisearch signing key")
}

func (s *meiliSearchService) initIndexes() {
	filterable := []any{"category", "publisher_kind", "author_id"}
	if _, err := s.client.Index(articlesIndex).UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn("failed to update articles filterable attributes", zap.Error(err))
	}

	sortable := []string{"published_at"}
	if _, err := s.client.Index(articlesIndex).UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn("failed to update articles sortable attributes", zap.Error(err))
	}
}

// PlainText strips markup and collapses whitespace.
func PlainText(policy *bluemonday.Policy, content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	clean := html.UnescapeString(policy.Sanitize(content))
	return strings.Join(strings.Fields(clean), " ")
}

func (s *meiliSearchService) IndexArticle(article *entity.Article, authorName, publisherName string) error {
	doc := ArticleDocument{
		ID:            article.ID.String(),
		Title:         article.Title,
		Content:       PlainText(s.sanitizer, article.Content),
		Category:      string(article.Category),
		AuthorID:      article.AuthorID.String(),
		AuthorName:    authorName,
		PublisherKind: string(article.Publisher.Kind),
		PublisherName: publisherName,
	}
	if article.ImageURL != nil {
		doc.ImageURL = *article.ImageURL
	}
	if article.PublishedAt != nil {
		doc.PublishedAt = article.PublishedAt.Unix()
	}

	task, err := s.client.Index(articlesIndex).AddDocuments([]ArticleDocument{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index article %s: %w", article.ID, err)
	}
	s.log.Debug("indexed article", zap.String("article_id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliSearchService) DeleteArticle(id string) error {
	_, err := s.client.Index(articlesIndex).DeleteDocument(id)
	return err
}

// GenerateSearchToken issues a tenant token limited to the articles index.
// Only published articles are ever indexed, so every role gets the same rules.
func (s *meiliSearchService) GenerateSearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		articlesIndex: map[string]any{},
	}

	return s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(searchTokenTTL),
	})
}

func strPtr(s string) *string {
	return &s
}
