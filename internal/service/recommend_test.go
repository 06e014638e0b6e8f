package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epasal/epasal-backend/internal/model"
)

type fakeCatalog struct {
	byID    map[int]model.Laptop
	catalog []model.Laptop
	sample  []model.Laptop
	err     error

	sampleCalls int
}

func (f *fakeCatalog) FetchByIDs(_ context.Context, ids []int) ([]model.Laptop, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Laptop
	for _, id := range ids {
		if l, ok := f.byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FetchByFilter(_ context.Context, _ FilterCriteria) ([]model.Laptop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func (f *fakeCatalog) FetchRandomSample(_ context.Context, _ FilterCriteria, n int) ([]model.Laptop, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sampleCalls++
	if len(f.sample) > n {
		return f.sample[:n], nil
	}
	return f.sample, nil
}

func priceLaptop(id int, price float64) model.Laptop {
	return model.Laptop{
		ID:        id,
		BrandName: fmt.Sprintf("brand-%d", id),
		ModelName: fmt.Sprintf("model-%d", id),
		ShowPrice: decimal.NewFromFloat(price),
	}
}

func newTestEngine(catalog Catalog) *Engine {
	return NewEngine(catalog, zerolog.Nop())
}

func TestParseViewedIDs(t *testing.T) {
	assert.Equal(t, []int{3, 7, 12}, ParseViewedIDs("3, 7 ,12"))
	assert.Nil(t, ParseViewedIDs(""))
	assert.Nil(t, ParseViewedIDs("abc,,x"))
	assert.Equal(t, []int{5}, ParseViewedIDs("abc,5,x"))
}

func TestRecommendEmptyViewedFallsBackToRandom(t *testing.T) {
	fake := &fakeCatalog{sample: []model.Laptop{priceLaptop(1, 100000)}}
	engine := newTestEngine(fake)

	got, err := engine.Recommend(context.Background(), "", FilterCriteria{})

	require.NoError(t, err)
	assert.Equal(t, 1, fake.sampleCalls)
	assert.Len(t, got, 1)
}

func TestRecommendUnresolvableViewedFallsBackToRandom(t *testing.T) {
	fake := &fakeCatalog{
		byID:   map[int]model.Laptop{},
		sample: []model.Laptop{priceLaptop(1, 100000)},
	}
	engine := newTestEngine(fake)

	got, err := engine.Recommend(context.Background(), "999", FilterCriteria{})

	require.NoError(t, err)
	assert.Equal(t, 1, fake.sampleCalls)
	assert.Len(t, got, 1)
}

func TestRecommendRanksByPriceProximity(t *testing.T) {
	seed := priceLaptop(1, 100000)
	near := priceLaptop(2, 100500)
	mid := priceLaptop(3, 110000)
	far := priceLaptop(4, 200000)

	fake := &fakeCatalog{
		byID:    map[int]model.Laptop{1: seed},
		catalog: []model.Laptop{far, near, mid},
	}
	engine := newTestEngine(fake)

	got, err := engine.Recommend(context.Background(), "1", FilterCriteria{})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 0, fake.sampleCalls)
}

func TestRecommendCapsResultSize(t *testing.T) {
	seed := priceLaptop(1, 100000)
	fake := &fakeCatalog{byID: map[int]model.Laptop{1: seed}}
	for i := 0; i < 30; i++ {
		fake.catalog = append(fake.catalog, priceLaptop(100+i, 100000+float64(i)*1000))
	}
	engine := newTestEngine(fake)

	got, err := engine.Recommend(context.Background(), "1", FilterCriteria{})

	require.NoError(t, err)
	assert.Len(t, got, RecommendLimit)
}

func TestRecommendAveragesOverSeeds(t *testing.T) {
	seedA := priceLaptop(1, 100000)
	seedB := priceLaptop(2, 200000)
	candNear := priceLaptop(3, 150000)
	candFar := priceLaptop(4, 400000)

	fake := &fakeCatalog{
		byID:    map[int]model.Laptop{1: seedA, 2: seedB},
		catalog: []model.Laptop{candFar, candNear},
	}
	engine := newTestEngine(fake)

	got, err := engine.Recommend(context.Background(), "1,2", FilterCriteria{})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].ID)
}

func TestPairScorePriceProximity(t *testing.T) {
	a := priceLaptop(1, 100000)
	b := priceLaptop(2, 100500)

	// Only the always-on price term fires: 1/(1+500/10000).
	assert.InDelta(t, 0.95238, pairScore(&a, &b), 0.0001)
}

func TestPairScoreIdenticalCategoricalBonuses(t *testing.T) {
	processor := "Intel"
	productType := "Gaming"
	ram := 16

	a := priceLaptop(1, 100000)
	a.BrandName = "Asus"
	a.ModelName = "ROG"
	a.Processor = &processor
	a.ProductType = &productType
	a.RAM = &ram
	b := a
	b.ID = 2

	// brand 1 + model 1 + processor 1 + product_type 0.8 + price 1 + ram 1.
	assert.InDelta(t, 5.8, pairScore(&a, &b), 0.0001)
}

func TestPairScoreMissingAttributeNeverScores(t *testing.T) {
	processor := "Intel"

	a := priceLaptop(1, 100000)
	a.BrandName = "Asus"
	a.ModelName = "ROG"
	a.Processor = &processor
	b := a
	b.ID = 2
	b.Processor = nil

	withMatch := a
	base := pairScore(&a, &withMatch)
	missing := pairScore(&a, &b)

	// Dropping one side of the processor pair removes exactly that bonus;
	// two absent values are not treated as equal.
	assert.InDelta(t, base-1.0, missing, 0.0001)

	a.Touchscreen = nil
	b.Touchscreen = nil
	assert.InDelta(t, base-1.0, pairScore(&a, &b), 0.0001)
}

func TestListingReturnsUnscoredCatalog(t *testing.T) {
	fake := &fakeCatalog{catalog: []model.Laptop{priceLaptop(9, 50000), priceLaptop(4, 90000)}}
	engine := newTestEngine(fake)

	got, err := engine.Listing(context.Background(), FilterCriteria{})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 9, got[0].ID)
	assert.Equal(t, 4, got[1].ID)
}

func TestRandomSampleHonorsLimit(t *testing.T) {
	fake := &fakeCatalog{}
	for i := 0; i < 40; i++ {
		fake.sample = append(fake.sample, priceLaptop(i, 100000))
	}
	engine := newTestEngine(fake)

	got, err := engine.RandomSample(context.Background(), FilterCriteria{})

	require.NoError(t, err)
	assert.Len(t, got, RecommendLimit)
}

func TestRecommendPropagatesCatalogError(t *testing.T) {
	fake := &fakeCatalog{err: assert.AnError}
	engine := newTestEngine(fake)

	_, err := engine.Recommend(context.Background(), "1", FilterCriteria{})

	assert.Error(t, err)
}
