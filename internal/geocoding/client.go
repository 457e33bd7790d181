package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var nonDigits = regexp.MustCompile(`\D`)

// Address is the normalized result of a postal-code or coordinate lookup
type Address struct {
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	DisplayName  string `json:"display_name,omitempty"`
}

// Client resolves Brazilian postal codes (ViaCEP) and reverse-geocodes GPS
// coordinates (Nominatim-compatible service). Lookups are best-effort: the
// PWA degrades to coordinates-only display when they fail.
type Client struct {
	viaCEPBaseURL  string
	reverseBaseURL string
	httpClient     *http.Client
}

// NewClient constructs a geocoding client with the public default endpoints
func NewClient() *Client {
	return &Client{
		viaCEPBaseURL:  "https://viacep.com.br/ws",
		reverseBaseURL: "https://nominatim.openstreetmap.org",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithEndpoints is used by tests and self-hosted deployments
func NewClientWithEndpoints(viaCEP, reverse string) *Client {
	c := NewClient()
	c.viaCEPBaseURL = strings.TrimRight(viaCEP, "/")
	c.reverseBaseURL = strings.TrimRight(reverse, "/")
	return c
}

type viaCEPResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Error        bool   `json:"erro,omitempty"`
}

// LookupPostalCode resolves a CEP to a street address.
// The CEP must contain exactly 8 digits after stripping punctuation.
func (c *Client) LookupPostalCode(ctx context.Context, cep string) (*Address, error) {
	clean := nonDigits.ReplaceAllString(cep, "")
	if len(clean) != 8 {
		return nil, fmt.Errorf("invalid postal code: must contain 8 digits")
	}

	endpoint := fmt.Sprintf("%s/%s/json/", c.viaCEPBaseURL, clean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postal code lookup failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postal code service returned status %d", resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode postal code response: %w", err)
	}
	if body.Error {
		return nil, fmt.Errorf("postal code not found")
	}

	return &Address{
		PostalCode:   body.CEP,
		Street:       body.Street,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}, nil
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road         string `json:"road"`
		Suburb       string `json:"suburb"`
		City         string `json:"city"`
		Town         string `json:"town"`
		State        string `json:"state"`
		Postcode     string `json:"postcode"`
		Neighborhood string `json:"neighbourhood"`
	} `json:"address"`
}

// ReverseGeocode resolves GPS coordinates to a human-readable address.
// Callers treat failure as non-fatal and keep coordinates-only display.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*Address, error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%.6f", lat))
	query.Set("lon", fmt.Sprintf("%.6f", lon))
	query.Set("format", "json")

	endpoint := fmt.Sprintf("%s/reverse?%s", c.reverseBaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "gruas-backend/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocoding service returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode reverse geocoding response: %w", err)
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	neighborhood := body.Address.Neighborhood
	if neighborhood == "" {
		neighborhood = body.Address.Suburb
	}

	return &Address{
		PostalCode:   body.Address.Postcode,
		Street:       body.Address.Road,
		Neighborhood: neighborhood,
		City:         city,
		State:        body.Address.State,
		DisplayName:  body.DisplayName,
	}, nil
}
