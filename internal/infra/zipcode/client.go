package zipcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ooya-dx/internal/metrics"

	"github.com/patrickmn/go-cache"
)

const DefaultBaseURL = "https://zipcloud.ibsnet.co.jp/api/search"

var (
	ErrNotFound = errors.New("zipcode not found")
	ErrUpstream = errors.New("zipcode service unavailable")
)

type Address struct {
	Zipcode        string `json:"zipcode"`
	PrefCode       string `json:"prefcode"`
	Prefecture     string `json:"prefecture"`
	City           string `json:"city"`
	Town           string `json:"town"`
	PrefectureKana string `json:"prefecture_kana"`
	CityKana       string `json:"city_kana"`
	TownKana       string `json:"town_kana"`
}

// zipcloud response shape.
type searchResponse struct {
	Status  int     `json:"status"`
	Message *string `json:"message"`
	Results []struct {
		Zipcode  string `json:"zipcode"`
		PrefCode string `json:"prefcode"`
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		Address3 string `json:"address3"`
		Kana1    string `json:"kana1"`
		Kana2    string `json:"kana2"`
		Kana3    string `json:"kana3"`
	} `json:"results"`
}

// Client resolves postal codes through the zipcloud search API and keeps
// answers, including misses, for a day.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		cache:   cache.New(24*time.Hour, time.Hour),
	}
}

// Lookup normalises raw and returns every address registered under it.
func (c *Client) Lookup(ctx context.Context, raw string) ([]Address, error) {
	code, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	if v, ok := c.cache.Get(code); ok {
		metrics.ZipcodeLookups.WithLabelValues("cache").Inc()
		addrs := v.([]Address)
		if len(addrs) == 0 {
			return nil, ErrNotFound
		}
		return addrs, nil
	}

	addrs, err := c.fetch(ctx, code)
	if err != nil {
		metrics.ZipcodeLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ZipcodeLookups.WithLabelValues("upstream").Inc()

	c.cache.SetDefault(code, addrs)
	if len(addrs) == 0 {
		return nil, ErrNotFound
	}
	return addrs, nil
}

func (c *Client) fetch(ctx context.Context, code string) ([]Address, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("zipcode base url: %w", err)
	}
	q := u.Query()
	q.Set("zipcode", code)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d", ErrUpstream, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	switch body.Status {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, ErrInvalidZipcode
	default:
		msg := ""
		if body.Message != nil {
			msg = *body.Message
		}
		return nil, fmt.Errorf("%w: status %d %s", ErrUpstream, body.Status, msg)
	}

	addrs := make([]Address, 0, len(body.Results))
	for _, r := range body.Results {
		addrs = append(addrs, Address{
			Zipcode:        r.Zipcode,
			PrefCode:       r.PrefCode,
			Prefecture:     r.Address1,
			City:           r.Address2,
			Town:           r.Address3,
			PrefectureKana: r.Kana1,
			CityKana:       r.Kana2,
			TownKana:       r.Kana3,
		})
	}
	return addrs, nil
}
