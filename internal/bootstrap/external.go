package bootstrap

import (
	"context"
	"fmt"
	"os"

	"anoa.com/newsaddiction/internal/config"
	searchService "anoa.com/newsaddiction/internal/modules/search/service"
	"anoa.com/newsaddiction/pkg/mailer"
	"anoa.com/newsaddiction/pkg/social"
	"anoa.com/newsaddiction/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// NewStorage returns nil when Cloudinary is not configured; uploads are then skipped.
func NewStorage(cfg *config.Config, log *zap.Logger) (storage.ImageStorage, error) {
	if cfg.CloudinaryCloudName == "" {
		log.Warn("CLOUDINARY_CLOUD_NAME not set, image uploads are disabled")
		return nil, nil
	}
	return storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
}

func NewSearch(cfg *config.Config, log *zap.Logger) searchService.MeiliSearchService {
	if cfg.MeiliSearchHost == "" {
		log.Warn("MEILISEARCH_HOST not set, search indexing is disabled")
		return nil
	}
	client := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	return searchService.NewMeiliSearchService(client, log)
}

func NewMailer(cfg *config.Config, log *zap.Logger) (mailer.Mailer, error) {
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST not set, mail is written to the log")
		return mailer.NewLogMailer(log.Named("mail")), nil
	}
	return mailer.NewSMTPMailer(mailer.SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
}

// NewPoster builds the social poster. Without stored access tokens the operator
// is walked through the PIN flow on the terminal.
func NewPoster(ctx context.Context, cfg *config.Config, log *zap.Logger) (social.Poster, error) {
	if cfg.TwitterConsumerKey == "" {
		log.Warn("TWITTER_CONSUMER_KEY not set, social posts are written to the log")
		return social.NewLogPoster(log.Named("social")), nil
	}

	if cfg.TwitterAccessToken != "" && cfg.TwitterAccessSecret != "" {
		credential := social.NewCredential(cfg.TwitterConsumerKey, cfg.TwitterConsumerSecret, cfg.TwitterAccessToken, cfg.TwitterAccessSecret)
		return social.NewTwitterPoster(credential), nil
	}

	credential, err := social.AuthorizePIN(ctx, social.PINFlow{
		ConsumerKey:    cfg.TwitterConsumerKey,
		ConsumerSecret: cfg.TwitterConsumerSecret,
		In:             os.Stdin,
		Out:            os.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("social authorization failed: %w", err)
	}
	token, secret := credential.AccessToken()
	fmt.Fprintf(os.Stdout, "\nSet TWITTER_ACCESS_TOKEN=%s and TWITTER_ACCESS_SECRET=%s to skip this step next time.\n", token, secret)
	return social.NewTwitterPoster(credential), nil
}
