package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/epasal/epasal-backend/internal/model"
)

// Catalog is the query surface the recommendation engine depends on.
type Catalog interface {
	FetchByIDs(ctx context.Context, ids []int) ([]model.Laptop, error)
	FetchByFilter(ctx context.Context, fc FilterCriteria) ([]model.Laptop, error)
	FetchRandomSample(ctx context.Context, fc FilterCriteria, n int) ([]model.Laptop, error)
}

const laptopColumns = `id, display_name, brand_name, model_name, model_year,
    product_authentication, product_type, processor, processor_generation,
    processor_series, ram, ram_type, storage, storage_type, graphic,
    graphic_ram, battery, touchscreen, show_price, face_image_url`

// PGCatalog implements Catalog over laptop_details.
type PGCatalog struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewPGCatalog(pool *pgxpool.Pool, log zerolog.Logger) *PGCatalog {
	return &PGCatalog{pool: pool, log: log.With().Str("component", "catalog").Logger()}
}

func (c *PGCatalog) FetchByIDs(ctx context.Context, ids []int) ([]model.Laptop, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	p := &Predicate{}
	for _, id := range ids {
		p.Or("id", "=", id)
	}
	where, args := p.Render(1)
	sql := "SELECT " + laptopColumns + " FROM laptop_details WHERE 1=1" + where

	return c.query(ctx, sql, args)
}

func (c *PGCatalog) FetchByFilter(ctx context.Context, fc FilterCriteria) ([]model.Laptop, error) {
	where, args := criteriaPredicate(fc).Render(1)
	sql := "SELECT " + laptopColumns + " FROM laptop_details WHERE 1=1" + where

	return c.query(ctx, sql, args)
}

func (c *PGCatalog) FetchRandomSample(ctx context.Context, fc FilterCriteria, n int) ([]model.Laptop, error) {
	where, args := criteriaPredicate(fc).Render(1)
	sql := fmt.Sprintf("SELECT %s FROM laptop_details WHERE 1=1%s ORDER BY RANDOM() LIMIT $%d",
		laptopColumns, where, len(args)+1)
	args = append(args, n)

	return c.query(ctx, sql, args)
}

func (c *PGCatalog) query(ctx context.Context, sql string, args []any) ([]model.Laptop, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		c.log.Error().Err(err).Str("query", sql).Msg("catalog query failed")
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer rows.Close()

	laptops, err := scanLaptops(rows)
	if err != nil {
		c.log.Error().Err(err).Str("query", sql).Msg("catalog scan failed")
		return nil, err
	}
	return laptops, nil
}

func scanLaptops(rows pgx.Rows) ([]model.Laptop, error) {
	var laptops []model.Laptop
	for rows.Next() {
		var l model.Laptop
		err := rows.Scan(
			&l.ID, &l.DisplayName, &l.BrandName, &l.ModelName, &l.ModelYear,
			&l.ProductAuthentication, &l.ProductType, &l.Processor, &l.ProcessorGeneration,
			&l.ProcessorSeries, &l.RAM, &l.RAMType, &l.Storage, &l.StorageType, &l.Graphic,
			&l.GraphicRAM, &l.Battery, &l.Touchscreen, &l.ShowPrice, &l.FaceImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan laptop row: %w", err)
		}
		laptops = append(laptops, l)
	}
	return laptops, rows.Err()
}
