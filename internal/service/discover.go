package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/voyagen/tvgrab/internal/fetcher"
	"github.com/voyagen/tvgrab/internal/models"
)

// Discover downloads the provider's channel catalog and returns its channels
// in catalog order, all inactive.
func Discover(ctx context.Context, src fetcher.Source, p models.Provider, log *slog.Logger) ([]models.Channel, error) {
	log.Info("downloading channel listing", "url", p.CatalogURL)
	body, err := src.Fetch(ctx, p.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	channels, err := fetcher.ParseCatalog(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	log.Info("found channels", "count", len(channels))
	return channels, nil
}
