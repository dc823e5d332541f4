package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/config"
)

// ErrNoMatch is returned when the API has no card for the query.
var ErrNoMatch = errors.New("no card matched")

var productIDPattern = regexp.MustCompile(`/product/(\d+)`)

// Client queries the Pokémon TCG API (pokemontcg.io v2) for card
// metadata, consulting the cache first.
type Client struct {
	baseURL    string
	apiKey     string
	cache      Cache
	httpClient *http.Client
}

// NewClient creates an enrichment client.
func NewClient(cfg config.EnrichmentConfig, cache Cache) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		cache:      cache,
		httpClient: rc.StandardClient(),
	}
}

// Lookup finds metadata for a card by name and collector number
// ("151/165"). Cached results are returned without an API call.
func (c *Client) Lookup(ctx context.Context, name, cardNumber string) (CardInfo, error) {
	key := cacheKey(name, cardNumber)
	if info, ok := c.cache.Get(key); ok {
		return info, nil
	}

	info, err := c.fetch(ctx, name, cardNumber)
	if err != nil {
		return CardInfo{}, err
	}

	if err := c.cache.Put(key, info); err != nil {
		// A broken cache file should not fail the lookup itself.
		return info, nil
	}
	return info, nil
}

func (c *Client) fetch(ctx context.Context, name, cardNumber string) (CardInfo, error) {
	query := fmt.Sprintf("name:%q", name)
	if numerator := collectorNumerator(cardNumber); numerator != "" {
		query += " number:" + numerator
	}

	endpoint := fmt.Sprintf("%s/cards?q=%s&pageSize=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CardInfo{}, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CardInfo{}, fmt.Errorf("failed to query card API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return CardInfo{}, fmt.Errorf("card API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data []struct {
			Name   string `json:"name"`
			Rarity string `json:"rarity"`
			Set    struct {
				Name string `json:"name"`
			} `json:"set"`
			Images struct {
				Small string `json:"small"`
				Large string `json:"large"`
			} `json:"images"`
			TCGPlayer struct {
				URL string `json:"url"`
			} `json:"tcgplayer"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return CardInfo{}, fmt.Errorf("failed to decode card API response: %w", err)
	}

	if len(payload.Data) == 0 {
		return CardInfo{}, ErrNoMatch
	}

	hit := payload.Data[0]
	info := CardInfo{
		Name:    hit.Name,
		SetName: hit.Set.Name,
		Rarity:  hit.Rarity,
		Image:   hit.Images.Small,
	}
	if m := productIDPattern.FindStringSubmatch(hit.TCGPlayer.URL); m != nil {
		info.ProductID = m[1]
	}
	return info, nil
}

func cacheKey(name, cardNumber string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + cardNumber
}

// collectorNumerator extracts the card's own number from "151/165".
func collectorNumerator(cardNumber string) string {
	if cardNumber == "" {
		return ""
	}
	if idx := strings.Index(cardNumber, "/"); idx > 0 {
		return cardNumber[:idx]
	}
	return cardNumber
}
