package service

import (
	"fmt"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/google/uuid"
)

// Transition records a status change applied to an article.
type Transition struct {
	From entity.ArticleStatus
	To   entity.ArticleStatus
}

// EntersPublished is true only for a move into PUBLISHED from another status.
// It is the single trigger for announcing an article.
func (t Transition) EntersPublished() bool {
	return t.To == entity.StatusPublished && t.From != entity.StatusPublished
}

func (t Transition) LeavesPublished() bool {
	return t.From == entity.StatusPublished && t.To != entity.StatusPublished
}

func transition(a *entity.Article, to entity.ArticleStatus, now time.Time) Transition {
	t := Transition{From: a.Status, To: to}
	a.Status = to
	if t.EntersPublished() {
		a.PublishedAt = &now
	}
	return t
}

// SelfPublish routes the article to its own author and publishes it at once.
func SelfPublish(a *entity.Article, now time.Time) Transition {
	a.Publisher = entity.SelfAuthorRef(a.AuthorID)
	return transition(a, entity.StatusPublished, now)
}

// SubmitToPublisher routes the article to a publisher for review,
// whatever state it was in before.
func SubmitToPublisher(a *entity.Article, publisherID uuid.UUID) Transition {
	a.Publisher = entity.PublisherRefTo(publisherID)
	return transition(a, entity.StatusAwaitingApproval, time.Time{})
}

func Approve(a *entity.Article, now time.Time) Transition {
	return transition(a, entity.StatusPublished, now)
}

func Reject(a *entity.Article) Transition {
	return transition(a, entity.StatusRejected, time.Time{})
}

// SetStatus moves the article to any status an editor may choose.
// Leaving DRAFT requires a publisher reference.
func SetStatus(a *entity.Article, to entity.ArticleStatus, now time.Time) (Transition, error) {
	if !to.Valid() {
		return Transition{}, fmt.Errorf("status %q: %w", to, apperror.ErrInvalidInput)
	}
	if to != entity.StatusDraft && !a.Publisher.IsSet() {
		return Transition{}, fmt.Errorf("%w: %w", apperror.ErrInvalidInput, entity.ErrPublisherRequired)
	}
	return transition(a, to, now), nil
}
