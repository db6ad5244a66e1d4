// internal/infrastructure/remote/client_test.go
package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/cart"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Remote.BaseURL = server.URL
	cfg.Remote.Timeout = 5 * time.Second
	return NewClient(cfg, logger)
}

func TestFetchCartDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"productId": "p1", "quantity": 2, "price": 100}]}`))
	}))

	lines, err := client.FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", string(lines[0].ProductID))
	require.NotNil(t, lines[0].Quantity)
	assert.Equal(t, 2, *lines[0].Quantity)
}

func TestAddItemSendsBodyAndBearerToken(t *testing.T) {
	var gotBody map[string]interface{}
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/add", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data": []}`))
	}))
	client.SetToken("tok-123")

	_, err := client.AddItem(context.Background(), "p1", "v1", 2)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "p1", gotBody["productId"])
	assert.Equal(t, "v1", gotBody["variantId"])
	assert.Equal(t, 2.0, gotBody["quantity"])
}

func TestAddItemOmitsEmptyVariant(t *testing.T) {
	var gotBody map[string]interface{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data": []}`))
	}))

	_, err := client.AddItem(context.Background(), "p1", "", 1)
	require.NoError(t, err)

	_, hasVariant := gotBody["variantId"]
	assert.False(t, hasVariant)
}

func TestAPIErrorCarriesVerbatimMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "Promocode expired on 2025-12-31"}`))
	}))

	_, err := client.ValidatePromocode(context.Background(), "OLD")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Promocode expired on 2025-12-31", apiErr.Message)
	assert.Equal(t, "Promocode expired on 2025-12-31", err.Error())
}

func TestAPIErrorFallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	}))

	_, err := client.FetchCart(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestValidatePromocodeDecodesPromo(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SAVE10", body["code"])
		w.Write([]byte(`{"data": {"code": "SAVE10", "discountType": "Percentage", "discountValue": 10, "minPurchase": 500, "maxDiscount": 80}}`))
	}))

	promo, err := client.ValidatePromocode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", promo.Code)
	assert.Equal(t, cart.DiscountPercentage, promo.DiscountType)
	require.NotNil(t, promo.MaxDiscount)
	assert.Equal(t, 80.0, *promo.MaxDiscount)
}

func TestMergeCartSendsItems(t *testing.T) {
	var gotBody struct {
		Items []cart.MergeItem `json:"items"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/merge", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data": []}`))
	}))

	_, err := client.MergeCart(context.Background(), []cart.MergeItem{
		{ProductID: "p1", VariantID: "v1", Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, gotBody.Items, 1)
	assert.Equal(t, "p1", gotBody.Items[0].ProductID)
}

func TestClearCartSendsNoBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/clear", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.WriteHeader(http.StatusOK)
	}))

	assert.NoError(t, client.ClearCart(context.Background()))
}

func TestWishlistViewRoutes(t *testing.T) {
	paths := make([]string, 0, 4)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"data": []}`))
	}))

	view := client.Wishlist()
	ctx := context.Background()
	_, err := view.FetchWishlist(ctx)
	require.NoError(t, err)
	_, err = view.AddItem(ctx, "p1")
	require.NoError(t, err)
	_, err = view.RemoveItem(ctx, "p1")
	require.NoError(t, err)
	_, err = view.MergeWishlist(ctx, []string{"p1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/wishlist", "/wishlist/add", "/wishlist/remove", "/wishlist/merge"}, paths)
}

func TestCloneIsolatesTokens(t *testing.T) {
	var tokens []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data": []}`))
	}))

	scoped := client.Clone()
	scoped.SetToken("tok-a")

	ctx := context.Background()
	_, err := scoped.FetchCart(ctx)
	require.NoError(t, err)
	_, err = client.FetchCart(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok-a", ""}, tokens)
}
