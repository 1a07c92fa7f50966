package entity

import (
	"github.com/google/uuid"
)

// PublisherKind tags which table a PublisherRef points into.
type PublisherKind string

const (
	PublisherKindNone      PublisherKind = ""
	PublisherKindPublisher PublisherKind = "publisher"
	PublisherKindUser      PublisherKind = "user"
)

// PublisherRef is the (kind, id) pair naming whoever published an article:
// an organisational Publisher or the authoring journalist. The zero value is unset.
type PublisherRef struct {
	Kind     PublisherKind `gorm:"size:20;index:idx_articles_publisher_ref" json:"kind"`
	ObjectID uuid.NullUUID `gorm:"type:uuid;index:idx_articles_publisher_ref" json:"id"`
}

func PublisherRefTo(publisherID uuid.UUID) PublisherRef {
	return PublisherRef{
		Kind:     PublisherKindPublisher,
		ObjectID: uuid.NullUUID{UUID: publisherID, Valid: true},
	}
}

func SelfAuthorRef(authorID uuid.UUID) PublisherRef {
	return PublisherRef{
		Kind:     PublisherKindUser,
		ObjectID: uuid.NullUUID{UUID: authorID, Valid: true},
	}
}

func (r PublisherRef) IsSet() bool {
	return r.Kind != PublisherKindNone && r.ObjectID.Valid
}

func (r PublisherRef) IsSelf() bool {
	return r.Kind == PublisherKindUser && r.ObjectID.Valid
}

// PublisherID returns the organisation id when the ref points at a Publisher.
func (r PublisherRef) PublisherID() (uuid.UUID, bool) {
	if r.Kind != PublisherKindPublisher || !r.ObjectID.Valid {
		return uuid.Nil, false
	}
	return r.ObjectID.UUID, true
}
