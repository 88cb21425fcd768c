package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/acs027/eshop-backend/internal/domain"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
	"github.com/acs027/eshop-backend/pkg/httpclient"
)

// fetchTimeout bounds a single feed pull end to end.
const fetchTimeout = 10 * time.Second

// payload is the upstream feed envelope.
type payload struct {
	Products []productDTO `json:"products"`
	Success  int          `json:"success"`
}

type productDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ImagePath string `json:"image"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Brand     string `json:"brand"`
}

// Client pulls the product catalog from the upstream feed over HTTP, behind a
// circuit breaker.
type Client struct {
	http   *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
}

// NewClient creates a feed client for the given feed URL.
func NewClient(url string, logger *slog.Logger) *Client {
	base := httpclient.New(httpclient.Config{
		Timeout:         fetchTimeout,
		MaxRetries:      2,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 10,
	})
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("catalog-feed"), logger)

	return &Client{
		http:   cb,
		url:    url,
		logger: logger,
	}
}

// Fetch pulls the full product feed. Network failures and circuit rejections
// surface as UpstreamUnavailable. A body that does not decode, or a feed that
// reports failure, degrades to an empty product list with a warning rather
// than an error.
func (c *Client) Fetch(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	resp, err := c.http.Get(ctx, c.url)
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("catalog feed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.UpstreamUnavailable("catalog feed", fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("catalog feed", err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		c.logger.WarnContext(ctx, "feed payload did not decode, treating catalog as empty",
			slog.String("error", err.Error()),
		)
		return []domain.Product{}, nil
	}

	if p.Success != 1 {
		c.logger.WarnContext(ctx, "feed reported failure, treating catalog as empty",
			slog.Int("success", p.Success),
		)
		return []domain.Product{}, nil
	}

	products := make([]domain.Product, 0, len(p.Products))
	for _, dto := range p.Products {
		products = append(products, domain.Product{
			ID:        dto.ID,
			Name:      dto.Name,
			ImagePath: dto.ImagePath,
			Category:  dto.Category,
			Price:     dto.Price,
			Brand:     dto.Brand,
		})
	}

	return products, nil
}
