// internal/infrastructure/remote/client.go
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/cart"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/wishlist"
)

// APIError is a non-2xx response from the storefront backend. Message carries
// the backend's human-readable reason verbatim so promocode rejections reach
// the user unaltered.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client wraps the cart, wishlist and promocode endpoints of the storefront
// backend. The zero token value issues anonymous requests; engines guarantee
// those never happen for state-mutating calls.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry

	mu    sync.RWMutex
	token string
}

// NewClient creates an unauthenticated client for the configured backend.
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Remote.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Remote.Timeout},
		log:     logger.WithField("component", "remote"),
	}
}

// Clone returns a session-scoped copy of the client with its own token.
func (c *Client) Clone() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Client{baseURL: c.baseURL, http: c.http, log: c.log, token: c.token}
}

// SetToken replaces the bearer token sent on subsequent requests. An empty
// token makes requests anonymous again.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Ping reports whether the backend is reachable. Any HTTP response counts;
// only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// FetchCart retrieves the authenticated user's cart.
func (c *Client) FetchCart(ctx context.Context) ([]cart.RawCartLine, error) {
	var out struct {
		Data []cart.RawCartLine `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AddItem adds a product line and returns the full resulting cart.
func (c *Client) AddItem(ctx context.Context, productID, variantID string, quantity int) ([]cart.RawCartLine, error) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	if variantID != "" {
		body["variantId"] = variantID
	}
	var out struct {
		Data []cart.RawCartLine `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/cart/add", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// RemoveItem removes a product line and returns the full resulting cart.
func (c *Client) RemoveItem(ctx context.Context, productID, variantID string) ([]cart.RawCartLine, error) {
	body := map[string]interface{}{"productId": productID}
	if variantID != "" {
		body["variantId"] = variantID
	}
	var out struct {
		Data []cart.RawCartLine `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/cart/remove", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateItem sets a line's quantity and returns the full resulting cart.
func (c *Client) UpdateItem(ctx context.Context, productID, variantID string, quantity int) ([]cart.RawCartLine, error) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	if variantID != "" {
		body["variantId"] = variantID
	}
	var out struct {
		Data []cart.RawCartLine `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/cart/update", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ClearCart empties the authenticated user's cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/cart/clear", nil, nil)
}

// MergeCart folds guest cart lines into the user's cart and returns the
// merged result.
func (c *Client) MergeCart(ctx context.Context, items []cart.MergeItem) ([]cart.RawCartLine, error) {
	body := map[string]interface{}{"items": items}
	var out struct {
		Data []cart.RawCartLine `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/cart/merge", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ValidatePromocode asks the backend to validate a code against the user's
// cart. Rejections come back as an APIError with the backend's reason.
func (c *Client) ValidatePromocode(ctx context.Context, code string) (*cart.Promocode, error) {
	body := map[string]interface{}{"code": code}
	var out struct {
		Data cart.Promocode `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/promocodes/validate", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// FetchWishlist retrieves the authenticated user's wishlist.
func (c *Client) FetchWishlist(ctx context.Context) ([]wishlist.RawEntry, error) {
	var out struct {
		Data []wishlist.RawEntry `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AddWishlistItem adds a product to the wishlist and returns the full result.
func (c *Client) AddWishlistItem(ctx context.Context, productID string) ([]wishlist.RawEntry, error) {
	body := map[string]interface{}{"productId": productID}
	var out struct {
		Data []wishlist.RawEntry `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/wishlist/add", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// RemoveWishlistItem removes a product from the wishlist and returns the full
// result.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID string) ([]wishlist.RawEntry, error) {
	body := map[string]interface{}{"productId": productID}
	var out struct {
		Data []wishlist.RawEntry `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/wishlist/remove", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// MergeWishlist folds guest product ids into the user's wishlist and returns
// the merged result.
func (c *Client) MergeWishlist(ctx context.Context, productIDs []string) ([]wishlist.RawEntry, error) {
	body := map[string]interface{}{"items": productIDs}
	var out struct {
		Data []wishlist.RawEntry `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/wishlist/merge", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Wishlist returns the wishlist engine's view of the client. The cart and
// wishlist endpoint families share parameter names, so the wishlist methods
// are exposed through an adapter.
func (c *Client) Wishlist() wishlist.RemoteStore {
	return wishlistView{c}
}

type wishlistView struct {
	c *Client
}

func (v wishlistView) FetchWishlist(ctx context.Context) ([]wishlist.RawEntry, error) {
	return v.c.FetchWishlist(ctx)
}

func (v wishlistView) AddItem(ctx context.Context, productID string) ([]wishlist.RawEntry, error) {
	return v.c.AddWishlistItem(ctx, productID)
}

func (v wishlistView) RemoveItem(ctx context.Context, productID string) ([]wishlist.RawEntry, error) {
	return v.c.RemoveWishlistItem(ctx, productID)
}

func (v wishlistView) MergeWishlist(ctx context.Context, productIDs []string) ([]wishlist.RawEntry, error) {
	return v.c.MergeWishlist(ctx, productIDs)
}

// do issues one JSON request. Non-2xx responses become APIError with the
// backend's message; transport failures are wrapped.
func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode}).Debug("backend rejected request")
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// errorMessage extracts the backend's human-readable reason from an error
// body, falling back to the status text.
func errorMessage(data []byte, status int) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return http.StatusText(status)
}
