package dto

import commonDto "anoa.com/newsaddiction/pkg/dto"

type JournalistDetailResponse struct {
	commonDto.AuthorResponse
	Biography         string `json:"biography"`
	Subscribed        bool   `json:"subscribed"`
	SubscriberCount   int64  `json:"subscriber_count"`
	PublishedArticles int64  `json:"published_articles"`
}

type SubscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}
