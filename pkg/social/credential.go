package social

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"
	"github.com/dghubble/oauth1/twitter"
)

// Credential is the long-lived OAuth 1.0a user credential for the shared
// social account. It is built once at startup and handed to the poster.
type Credential struct {
	config *oauth1.Config
	token  *oauth1.Token
}

func NewCredential(consumerKey, consumerSecret, accessToken, accessSecret string) *Credential {
	return &Credential{
		config: oauth1.NewConfig(consumerKey, consumerSecret),
		token:  oauth1.NewToken(accessToken, accessSecret),
	}
}

// Client returns an HTTP client that signs every request with the credential.
func (c *Credential) Client(ctx context.Context) *http.Client {
	return c.config.Client(ctx, c.token)
}

// AccessToken exposes the token pair so an operator can persist it after the PIN flow.
func (c *Credential) AccessToken() (token, secret string) {
	return c.token.Token, c.token.TokenSecret
}

type PINFlow struct {
	ConsumerKey    string
	ConsumerSecret string
	// Endpoint defaults to the Twitter authorize endpoint.
	Endpoint *oauth1.Endpoint
	In       io.Reader
	Out      io.Writer
}

// AuthorizePIN runs the out-of-band flow: fetch a request token, show the
// authorization URL, read the PIN the operator pastes back, and exchange it.
func AuthorizePIN(ctx context.Context, flow PINFlow) (*Credential, error) {
	if flow.ConsumerKey == "" || flow.ConsumerSecret == "" {
		return nil, errors.New("consumer key and secret are required")
	}

	endpoint := twitter.AuthorizeEndpoint
	if flow.Endpoint != nil {
		endpoint = *flow.Endpoint
	}

	config := &oauth1.Config{
		ConsumerKey:    flow.ConsumerKey,
		ConsumerSecret: flow.ConsumerSecret,
		CallbackURL:    "oob",
		Endpoint:       endpoint,
	}

	requestToken, requestSecret, err := config.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain request token: %w", err)
	}

	authURL, err := config.AuthorizationURL(requestToken)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization url: %w", err)
	}

	fmt.Fprintf(flow.Out, "Open this URL to authorize the application:\n%s\nThen paste the PIN here: ", authURL.String())

	pin, err := readLine(ctx, flow.In)
	if err != nil {
		return nil, fmt.Errorf("failed to read PIN: %w", err)
	}
	if pin == "" {
		return nil, errors.New("empty PIN")
	}

	accessToken, accessSecret, err := config.AccessToken(requestToken, requestSecret, pin)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange PIN for access token: %w", err)
	}

	return &Credential{
		config: oauth1.NewConfig(flow.ConsumerKey, flow.ConsumerSecret),
		token:  oauth1.NewToken(accessToken, accessSecret),
	}, nil
}

func readLine(ctx context.Context, r io.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			done <- result{err: err}
			return
		}
		done <- result{line: strings.TrimSpace(line)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.line, res.err
	}
}
