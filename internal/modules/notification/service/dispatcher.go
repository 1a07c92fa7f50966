package service

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/newsaddiction/internal/entity"
	notifRepo "anoa.com/newsaddiction/internal/modules/notification/repository"
	"anoa.com/newsaddiction/pkg/apperror"
	"anoa.com/newsaddiction/pkg/mailer"
	"anoa.com/newsaddiction/pkg/social"
	"go.uber.org/zap"
)

// Dispatcher announces a freshly published article to its audience.
type Dispatcher interface {
	// ArticlePublished emails every subscriber once, then posts one social status.
	// The first failed email stops the fan-out. Calling it twice sends twice.
	ArticlePublished(ctx context.Context, article *entity.Article, author *entity.User) (*DispatchReport, error)
}

type DispatchReport struct {
	Recipients int    `json:"recipients"`
	Emailed    int    `json:"emailed"`
	PostID     string `json:"post_id,omitempty"`
}

type DispatchOptions struct {
	SiteName string
	SiteURL  string
	MailFrom string
}

type dispatcher struct {
	repo          notifRepo.NotificationRepository
	notifications NotificationService
	mailer        mailer.Mailer
	poster        social.Poster
	opts          DispatchOptions
	log           *zap.Logger
}

func NewDispatcher(repo notifRepo.NotificationRepository, notifications NotificationService, m mailer.Mailer, poster social.Poster, opts DispatchOptions, log *zap.Logger) Dispatcher {
	return &dispatcher{
		repo:          repo,
		notifications: notifications,
		mailer:        m,
		poster:        poster,
		opts:          opts,
		log:           log.Named("dispatcher"),
	}
}

func (d *dispatcher) subject(article *entity.Article) string {
	return fmt.Sprintf("New Article Published on %s!: %s", d.opts.SiteName, article.Title)
}

func (d *dispatcher) emailBody(recipient *entity.User, article *entity.Article, author *entity.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n A new article has been  published from an entity you subscribe to.\n\n", recipient.Name())
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	fmt.Fprintf(&b, "Author: %s\n", author.Name())
	fmt.Fprintf(&b, "Content: \n%s\n\n", article.Content)
	fmt.Fprintf(&b, "View the article and more at %s\n", d.opts.SiteURL)
	return b.String()
}

func (d *dispatcher) statusText(article *entity.Article, author *entity.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New Article Published on %s!:\n", d.opts.SiteName)
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	fmt.Fprintf(&b, "Author: %s\n", author.Name())
	fmt.Fprintf(&b, "Content: \n%s\n\n", article.Content)
	fmt.Fprintf(&b, "View the article and more at %s", d.opts.SiteURL)
	return b.String()
}

func (d *dispatcher) ArticlePublished(ctx context.Context, article *entity.Article, author *entity.User) (*DispatchReport, error) {
	publisherID := article.Publisher.ObjectID
	if article.Publisher.Kind != entity.PublisherKindPublisher {
		publisherID.Valid = false
	}

	recipients, err := d.repo.Recipients(ctx, author.ID, publisherID)
	if err != nil {
		return nil, fmt.Errorf("load recipients: %w", err)
	}

	report := &DispatchReport{Recipients: len(recipients)}
	subject := d.subject(article)

	for i := range recipients {
		recipient := &recipients[i]

		msg := mailer.Message{
			Subject: subject,
			Body:    d.emailBody(recipient, article, author),
			From:    d.opts.MailFrom,
			To:      []string{recipient.Email},
		}
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.log.Error("fan-out aborted",
				zap.String("article_id", article.ID.String()),
				zap.String("recipient", recipient.Username),
				zap.Int("emailed", report.Emailed),
				zap.Error(err),
			)
			return report, fmt.Errorf("%w: email to %s: %w", apperror.ErrExternalService, recipient.Username, err)
		}
		report.Emailed++

		notification := &entity.Notification{
			UserID:     recipient.ID,
			ActorID:    author.ID,
			EntityID:   article.ID,
			EntityType: entity.NotificationEntityArticle,
			Type:       entity.NotificationArticlePublished,
			Message:    subject,
		}
		if err := d.notifications.CreateNotification(ctx, notification); err != nil {
			d.log.Warn("failed to store notification",
				zap.String("recipient", recipient.Username),
				zap.Error(err),
			)
		}
	}

	var imageURL string
	if article.ImageURL != nil {
		imageURL = *article.ImageURL
	}
	postID, err := d.poster.PostStatus(ctx, d.statusText(article, author), imageURL)
	if err != nil {
		return report, fmt.Errorf("%w: social post: %w", apperror.ErrExternalService, err)
	}
	report.PostID = postID

	d.log.Info("article announced",
		zap.String("article_id", article.ID.String()),
		zap.Int("emailed", report.Emailed),
		zap.String("post_id", postID),
	)
	return report, nil
}
