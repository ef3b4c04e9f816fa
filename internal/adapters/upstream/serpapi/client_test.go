package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePayload = `{
	"shopping_results": [
		{
			"title": "Amul Milk 1kg",
			"price": "₹250",
			"rating": 4.5,
			"reviews": 1200,
			"source": "BigBasket",
			"thumbnail": "https://img.example/milk.jpg",
			"link": "https://bigbasket.com/amul-milk"
		},
		{
			"title": "Nandini Milk",
			"price": "₹230",
			"product_link": "https://shop.example/nandini"
		},
		{
			"title": "Heritage Milk",
			"price": "₹240",
			"offers": [{"link": "https://offers.example/heritage"}]
		},
		{
			"title": "Red Shoes",
			"price": "₹999"
		},
		{
			"title": "Local Deal",
			"price": "₹100",
			"link": "/shop/x"
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestClient_SearchSendsMarketParameters(t *testing.T) {
	var params map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		params = map[string]string{
			"engine":   r.URL.Query().Get("engine"),
			"q":        r.URL.Query().Get("q"),
			"location": r.URL.Query().Get("location"),
			"hl":       r.URL.Query().Get("hl"),
			"gl":       r.URL.Query().Get("gl"),
			"api_key":  r.URL.Query().Get("api_key"),
		}
		w.Write([]byte(`{"shopping_results": []}`))
	})

	_, err := client.Search(context.Background(), "amul milk")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"engine":   "google_shopping",
		"q":        "amul milk",
		"location": "India",
		"hl":       "en",
		"gl":       "in",
		"api_key":  "test-key",
	}, params)
}

func TestClient_NormalizesListings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(fixturePayload))
	})

	listings, err := client.Search(context.Background(), "milk")
	require.NoError(t, err)
	require.Len(t, listings, 5)

	full := listings[0]
	assert.Equal(t, "Amul Milk 1kg", full.Title)
	assert.Equal(t, "₹250", full.Price)
	require.NotNil(t, full.Rating)
	assert.InDelta(t, 4.5, *full.Rating, 0.001)
	require.NotNil(t, full.Reviews)
	assert.Equal(t, 1200, *full.Reviews)
	assert.Equal(t, "BigBasket", full.Store)
	assert.Equal(t, "https://img.example/milk.jpg", full.Image)
	assert.Equal(t, "https://bigbasket.com/amul-milk", full.Link)

	sparse := listings[1]
	assert.Nil(t, sparse.Rating)
	assert.Nil(t, sparse.Reviews)
}

func TestClient_LinkFallbackOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(fixturePayload))
	})

	listings, err := client.Search(context.Background(), "milk")
	require.NoError(t, err)

	// product_link when the primary link is absent.
	assert.Equal(t, "https://shop.example/nandini", listings[1].Link)
	// first offer link as the next fallback.
	assert.Equal(t, "https://offers.example/heritage", listings[2].Link)
	// no link at all synthesizes a web search from the title.
	assert.Equal(t, "https://www.google.com/search?q=Red+Shoes", listings[3].Link)
	// relative links get the web origin prefixed.
	assert.Equal(t, "https://www.google.com/shop/x", listings[4].Link)
}

func TestClient_NonOKStatusIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "milk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_MalformedPayloadIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"shopping_results": [`))
	})

	_, err := client.Search(context.Background(), "milk")
	require.Error(t, err)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
