package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StockRecord is one row of the integrator's stock export. Field names
// follow the upstream API.
type StockRecord struct {
	Barcode        string `json:"cod_barra_ord"`
	ItemCode       string `json:"cod_item"`
	Description    string `json:"desc_tecnica"`
	Mask           string `json:"mascara"`
	SystemQuantity int    `json:"qtde"`
	LabelQuantity  int    `json:"qtde_etiqueta"`
}

// envelope is the integrator's response wrapper.
type envelope[T any] struct {
	Value []T `json:"value"`
}

// Client fetches catalog exports from the ERP integrator API.
type Client struct {
	baseURL string
	token   string
	key     string
	http    *http.Client
}

// NewClient creates a client for the given integrator endpoint. The token is
// sent as a bearer credential and the key as the Chave query parameter on
// every request.
func NewClient(baseURL, token, key string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		key:     key,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchStock retrieves the full stock export.
func (c *Client) FetchStock(ctx context.Context) ([]StockRecord, error) {
	return fetch[StockRecord](ctx, c, "dados_estoque")
}

func fetch[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.URL.RawQuery = url.Values{"Chave": {c.key}}.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export request %q failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("export %q returned status %d: %s", endpoint, resp.StatusCode, body)
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("export %q returned malformed payload: %w", endpoint, err)
	}
	return env.Value, nil
}
