// Package relay provides an HTTP RelayClient implementation for ciphera.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"ciphera/internal/domain"
)

// HTTP is a RelayClient over HTTP, encoding the wire types as CBOR.
type HTTP struct {
	Base   string
	client *http.Client
}

// NewHTTP constructs a new HTTP relay client.
// If client is nil, http.DefaultClient will be used.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: base, client: client}
}

// RegisterPreKeyBundle publishes a PreKeyBundle to POST /register.
func (c *HTTP) RegisterPreKeyBundle(ctx context.Context, bundle domain.PreKeyBundle) error {
	return c.post(ctx, "/register", bundle, nil)
}

// FetchPreKeyBundle retrieves the bundle for username via GET /prekey/{username}.
func (c *HTTP) FetchPreKeyBundle(ctx context.Context, username domain.Username) (domain.PreKeyBundle, error) {
	var out domain.PreKeyBundle
	if err := c.get(ctx, "/prekey/"+url.PathEscape(string(username)), &out); err != nil {
		return domain.PreKeyBundle{}, err
	}
	return out, nil
}

// SendMessage posts an EncryptedMessage to POST /msg/{receiver}.
func (c *HTTP) SendMessage(ctx context.Context, envelope domain.EncryptedMessage) error {
	return c.post(ctx, "/msg/"+url.PathEscape(string(envelope.Receiver)), envelope, nil)
}

// FetchMessages GETs up to limit EncryptedMessages from /msg/{username}?limit=N.
func (c *HTTP) FetchMessages(
	ctx context.Context,
	username domain.Username,
	limit int,
) ([]domain.EncryptedMessage, error) {
	path := "/msg/" + url.PathEscape(string(username))
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var envs []domain.EncryptedMessage
	if err := c.get(ctx, path, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

// AckMessages sends an acknowledgment to POST /msg/{username}/ack with {count}.
func (c *HTTP) AckMessages(ctx context.Context, username domain.Username, count int) error {
	payload := struct {
		Count int `cbor:"count"`
	}{Count: count}
	return c.post(ctx, "/msg/"+url.PathEscape(string(username))+"/ack", payload, nil)
}

// post is a helper for CBOR-encoding a POST to path.
func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	body, err := cbor.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/cbor")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	if out != nil {
		return cbor.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// get performs a GET and CBOR-decodes the response into out.
func (c *HTTP) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
	return cbor.NewDecoder(resp.Body).Decode(out)
}

// Compile-time assertion that HTTP implements domain.RelayClient.
var _ domain.RelayClient = (*HTTP)(nil)
