package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

func inventoryFixture() []card.Record {
	return []card.Record{
		{
			Name:         "Mew ex #151/165",
			CardNumber:   "151/165",
			SetName:      "151",
			Price:        5.99,
			Market:       6.50,
			Image:        "https://img.example/mew.png",
			TCGProductID: "517003",
			Cost:         2.00,
		},
		{
			Name:         "Charizard ex #199/165",
			CardNumber:   "199/165",
			SetName:      "151",
			Price:        89.99,
			Market:       95.00,
			Image:        "https://img.example/charizard.png",
			TCGProductID: "517119",
		},
		{
			Name:    "Paldea Evolved Booster Box",
			Price:   129.99,
			Market:  135.00,
			SetName: "Paldea Evolved",
		},
	}
}

func TestReconcile_ExactProductID(t *testing.T) {
	r := New(DefaultConfig())
	s := sale.Record{Name: "completely different text", TCGProductID: "517119"}

	got := r.Reconcile(s, inventoryFixture())

	assert.True(t, got.Matched)
	assert.Equal(t, 1.0, got.MatchScore)
	assert.Equal(t, "https://img.example/charizard.png", got.Image)
	assert.Equal(t, "199/165", got.CardNumber)
	assert.Equal(t, "151", got.SetName)
	assert.Equal(t, 95.00, got.Market)
}

func TestReconcile_ExactSetAndNumber(t *testing.T) {
	r := New(DefaultConfig())
	s := sale.Record{Name: "mystery card", SetName: "  151 ", CardNumber: "151/165"}

	got := r.Reconcile(s, inventoryFixture())

	assert.True(t, got.Matched)
	assert.Equal(t, 1.0, got.MatchScore)
	assert.Equal(t, "517003", got.TCGProductID)
	assert.Equal(t, "https://img.example/mew.png", got.Image)
}

func TestReconcile_FuzzyName(t *testing.T) {
	r := New(DefaultConfig())
	s := sale.Record{Name: "Mew ex #151/165"}

	got := r.Reconcile(s, inventoryFixture())

	assert.True(t, got.Matched)
	assert.Equal(t, 1.0, got.MatchScore)
	assert.Equal(t, "517003", got.TCGProductID)
	assert.Equal(t, 6.50, got.Market)
	assert.Equal(t, 2.00, got.Cost)
}

func TestReconcile_BelowThreshold(t *testing.T) {
	r := New(DefaultConfig())
	s := sale.Record{Name: "Blastoise"}

	got := r.Reconcile(s, inventoryFixture())

	assert.False(t, got.Matched)
	assert.Equal(t, s, got, "unmatched record must come back unchanged")
}

func TestReconcile_EmptyInventory(t *testing.T) {
	r := New(DefaultConfig())
	s := sale.Record{Name: "Mew ex #151/165"}

	got := r.Reconcile(s, nil)

	assert.False(t, got.Matched)
	assert.Equal(t, s, got)
}

func TestReconcile_NeverOverwritesPopulatedFields(t *testing.T) {
	r := New(DefaultConfig())
	s := sale.Record{
		Name:       "Mew ex #151/165",
		Image:      "https://user.example/edited.png",
		SetName:    "My Custom Set",
		CardNumber: "151/165",
		Cost:       3.50,
	}

	got := r.Reconcile(s, inventoryFixture())

	require.True(t, got.Matched)
	assert.Equal(t, "https://user.example/edited.png", got.Image)
	assert.Equal(t, "My Custom Set", got.SetName)
	assert.Equal(t, 3.50, got.Cost)
	// Empty fields still get filled.
	assert.Equal(t, "517003", got.TCGProductID)
	assert.Equal(t, 6.50, got.Market)
}

func TestReconcile_TieBreakKeepsFirst(t *testing.T) {
	inventory := []card.Record{
		{Name: "Pikachu", TCGProductID: "first"},
		{Name: "Pikachu", TCGProductID: "second"},
	}

	r := New(DefaultConfig())
	got := r.Reconcile(sale.Record{Name: "Pikachu"}, inventory)

	require.True(t, got.Matched)
	assert.Equal(t, "first", got.TCGProductID)
}

func TestReconcileAll_SkipsMatchedRecords(t *testing.T) {
	r := New(DefaultConfig())
	sales := []sale.Record{
		{Name: "Mew ex #151/165"},
		{Name: "anything", Matched: true, MatchScore: 0.93, Image: "keep.png"},
	}

	got := r.ReconcileAll(sales, inventoryFixture())

	require.Len(t, got, 2)
	assert.True(t, got[0].Matched)
	assert.Equal(t, "keep.png", got[1].Image)
	assert.Equal(t, 0.93, got[1].MatchScore)
}

func TestBestCandidate(t *testing.T) {
	r := New(DefaultConfig())

	idx, score := r.BestCandidate("Charizard ex #199/165", inventoryFixture())
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1.0, score)

	idx, _ = r.BestCandidate("anything", nil)
	assert.Equal(t, -1, idx)
}

func TestThresholds(t *testing.T) {
	// Review < auto-match < backfill, each gating a riskier action.
	assert.Less(t, ThresholdReview, ThresholdAutoMatch)
	assert.Less(t, ThresholdAutoMatch, ThresholdBackfill)
}
