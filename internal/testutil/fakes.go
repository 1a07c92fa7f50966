package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"anoa.com/newsaddiction/pkg/mailer"
)

var ErrFakeFailure = errors.New("fake failure")

// Mailer records every message. FailOn makes the n-th send (1-based) fail.
type Mailer struct {
	mu     sync.Mutex
	Sent   []mailer.Message
	FailOn int
	calls  int
}

func (m *Mailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.FailOn > 0 && m.calls == m.FailOn {
		return fmt.Errorf("send to %v: %w", msg.To, ErrFakeFailure)
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *Mailer) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, msg := range m.Sent {
		out = append(out, msg.To...)
	}
	return out
}

type Post struct {
	Text     string
	ImageURL string
}

type Poster struct {
	mu    sync.Mutex
	Posts []Post
	Fail  bool
}

func (p *Poster) PostStatus(_ context.Context, text, imageURL string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Fail {
		return "", ErrFakeFailure
	}
	p.Posts = append(p.Posts, Post{Text: text, ImageURL: imageURL})
	return fmt.Sprintf("post-%d", len(p.Posts)), nil
}

type Upload struct {
	Folder   string
	FileName string
	Size     int
}

// Storage is an in-memory ImageStorage.
type Storage struct {
	mu      sync.Mutex
	Uploads []Upload
	Deleted []string
}

func (s *Storage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Uploads = append(s.Uploads, Upload{Folder: folder, FileName: fileName, Size: len(data)})
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, fileName), nil
}

func (s *Storage) DeleteImage(_ context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, fileURL)
	return nil
}
