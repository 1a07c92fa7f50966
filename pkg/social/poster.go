package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Poster publishes one status update to the shared account.
type Poster interface {
	// PostStatus posts text with an optional image (empty imageURL for none)
	// and returns the external post id.
	PostStatus(ctx context.Context, text, imageURL string) (string, error)
}

const (
	defaultAPIBase    = "https://api.twitter.com"
	defaultUploadBase = "https://upload.twitter.com"
	maxImageBytes     = 5 << 20
)

type TwitterPoster struct {
	credential *Credential
	// APIBase and UploadBase can be pointed at a stub server.
	APIBase    string
	UploadBase string
	// Fetch downloads article images before upload.
	Fetch *http.Client
}

func NewTwitterPoster(credential *Credential) *TwitterPoster {
	return &TwitterPoster{
		credential: credential,
		APIBase:    defaultAPIBase,
		UploadBase: defaultUploadBase,
		Fetch:      &http.Client{Timeout: 30 * time.Second},
	}
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type mediaResponse struct {
	MediaIDString string `json:"media_id_string"`
}

func (p *TwitterPoster) PostStatus(ctx context.Context, text, imageURL string) (string, error) {
	client := p.credential.Client(ctx)

	req := tweetRequest{Text: text}
	if imageURL != "" {
		mediaID, err := p.uploadMedia(ctx, client, imageURL)
		if err != nil {
			return "", err
		}
		req.Media = &tweetMedia{MediaIDs: []string{mediaID}}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.APIBase+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to post status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("post status returned %d: %s", resp.StatusCode, msg)
	}

	var out tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode post status response: %w", err)
	}
	return out.Data.ID, nil
}

func (p *TwitterPoster) uploadMedia(ctx context.Context, client *http.Client, imageURL string) (string, error) {
	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	imgResp, err := p.Fetch.Do(getReq)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer imgResp.Body.Close()
	if imgResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image returned %d", imgResp.StatusCode)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fileName := path.Base(getReq.URL.Path)
	if fileName == "/" || fileName == "." {
		fileName = uuid.NewString()
	}
	part, err := mw.CreateFormFile("media", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, io.LimitReader(imgResp.Body, maxImageBytes)); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	upReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.UploadBase+"/1.1/media/upload.json", &buf)
	if err != nil {
		return "", err
	}
	upReq.Header.Set("Content-Type", mw.FormDataContentType())

	upResp, err := client.Do(upReq)
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}
	defer upResp.Body.Close()

	if upResp.StatusCode != http.StatusOK && upResp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(upResp.Body, 1024))
		return "", fmt.Errorf("media upload returned %d: %s", upResp.StatusCode, msg)
	}

	var media mediaResponse
	if err := json.NewDecoder(upResp.Body).Decode(&media); err != nil {
		return "", fmt.Errorf("failed to decode media upload response: %w", err)
	}
	if media.MediaIDString == "" {
		return "", fmt.Errorf("media upload returned no media id")
	}
	return media.MediaIDString, nil
}

type logPoster struct {
	log *zap.Logger
}

// NewLogPoster logs status updates instead of posting them.
func NewLogPoster(log *zap.Logger) Poster {
	return &logPoster{log: log}
}

func (p *logPoster) PostStatus(_ context.Context, text, imageURL string) (string, error) {
	id := uuid.NewString()
	p.log.Info("social status",
		zap.String("post_id", id),
		zap.String("image_url", imageURL),
		zap.String("text", text),
	)
	return id, nil
}
