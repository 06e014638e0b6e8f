package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epasal/epasal-backend/internal/model"
)

// RecommendLimit caps the recommendation and random-sample result size.
const RecommendLimit = 16

// Per-attribute scales for the continuous similarity terms. Each term is
// 1/(1+|a-b|/scale) so a difference equal to the scale halves the term.
const (
	priceScale      = 10000.0
	ramScale        = 4.0
	storageScale    = 256.0
	graphicRAMScale = 2.0
	modelYearScale  = 1.0
)

// Engine ranks catalog candidates by similarity to the products a visitor has
// already viewed. It holds no cross-request state; every call is independent.
type Engine struct {
	catalog Catalog
	limit   int
	log     zerolog.Logger
}

func NewEngine(catalog Catalog, log zerolog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		limit:   RecommendLimit,
		log:     log.With().Str("component", "recommend").Logger(),
	}
}

// ParseViewedIDs splits a comma separated id list, silently dropping entries
// that do not parse as integers.
func ParseViewedIDs(viewed string) []int {
	var ids []int
	for _, part := range strings.Split(viewed, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// RandomSample returns up to RecommendLimit arbitrary in-filter products.
func (e *Engine) RandomSample(ctx context.Context, fc FilterCriteria) ([]model.Laptop, error) {
	return e.catalog.FetchRandomSample(ctx, fc, e.limit)
}

// Listing returns the plain filtered catalog, unscored.
func (e *Engine) Listing(ctx context.Context, fc FilterCriteria) ([]model.Laptop, error) {
	return e.catalog.FetchByFilter(ctx, fc)
}

// Recommend produces up to RecommendLimit products ranked by similarity to
// the viewed set. An empty or entirely unresolvable viewed set degrades to a
// random sample of the filtered catalog. Any catalog failure aborts the whole
// computation; no partial results are returned.
func (e *Engine) Recommend(ctx context.Context, viewed string, fc FilterCriteria) ([]model.Laptop, error) {
	ids := ParseViewedIDs(viewed)
	if len(ids) == 0 {
		return e.RandomSample(ctx, fc)
	}

	seeds, err := e.catalog.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return e.RandomSample(ctx, fc)
	}

	candidates, err := e.catalog.FetchByFilter(ctx, fc)
	if err != nil {
		return nil, err
	}

	type scoredCandidate struct {
		laptop model.Laptop
		score  float64
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		total := 0.0
		for i := range seeds {
			total += pairScore(&cand, &seeds[i])
		}
		scored = append(scored, scoredCandidate{
			laptop: cand,
			score:  total / float64(len(seeds)),
		})
	}

	// Descending score; order among equal scores is unspecified.
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > e.limit {
		scored = scored[:e.limit]
	}

	top := make([]model.Laptop, len(scored))
	for i, sc := range scored {
		top[i] = sc.laptop
	}
	return top, nil
}

// pairScore is the similarity between one candidate and one seed: categorical
// exact-match bonuses plus continuous proximity terms. A categorical match
// needs both sides present and equal; a missing value on either side never
// scores. Price proximity is always computed, the other numeric terms only
// when both sides carry the attribute.
func pairScore(a, b *model.Laptop) float64 {
	score := 0.0

	if a.BrandName == b.BrandName {
		score += 1.0
	}
	if a.ModelName == b.ModelName {
		score += 1.0
	}
	if strMatch(a.Processor, b.Processor) {
		score += 1.0
	}
	if strMatch(a.ProductType, b.ProductType) {
		score += 0.8
	}
	if strMatch(a.ProcessorGeneration, b.ProcessorGeneration) {
		score += 0.8
	}
	if strMatch(a.ProcessorSeries, b.ProcessorSeries) {
		score += 0.8
	}
	if strMatch(a.RAMType, b.RAMType) {
		score += 0.6
	}
	if strMatch(a.StorageType, b.StorageType) {
		score += 0.6
	}
	if strMatch(a.Graphic, b.Graphic) {
		score += 0.6
	}
	if strMatch(a.Battery, b.Battery) {
		score += 0.6
	}
	if boolMatch(a.Touchscreen, b.Touchscreen) {
		score += 0.6
	}

	priceDiff := a.ShowPrice.Sub(b.ShowPrice).Abs().InexactFloat64()
	score += proximity(priceDiff, priceScale)

	if a.RAM != nil && b.RAM != nil {
		score += proximity(float64(*a.RAM-*b.RAM), ramScale)
	}
	if a.Storage != nil && b.Storage != nil {
		score += proximity(float64(*a.Storage-*b.Storage), storageScale)
	}
	if a.GraphicRAM != nil && b.GraphicRAM != nil {
		score += proximity(float64(*a.GraphicRAM-*b.GraphicRAM), graphicRAMScale)
	}
	if a.ModelYear != nil && b.ModelYear != nil {
		score += proximity(float64(*a.ModelYear-*b.ModelYear), modelYearScale)
	}

	return score
}

func proximity(diff, scale float64) float64 {
	return 1.0 / (1.0 + math.Abs(diff)/scale)
}

func strMatch(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func boolMatch(a, b *bool) bool {
	return a != nil && b != nil && *a == *b
}
