package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/downlz/llmcostguide/internal/models"
)

func testRecords() []models.LLMModel {
	return []models.LLMModel{
		{ModelName: "GPT-4 Turbo", Provider: "OpenAI", Description: "Latest GPT-4 model"},
		{ModelName: "Claude 3 Opus", Provider: "Anthropic", Description: "Most capable Claude"},
		{ModelName: "Gemini Pro", Provider: "Google", Description: "Multimodal model"},
		{ModelName: "gpt-3.5-turbo", Provider: "OpenAI", Description: ""},
	}
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	records := testRecords()
	assert.Equal(t, records, Filter(records, DefaultFields, ""))
	assert.Equal(t, records, Filter(records, DefaultFields, "   "))
}

func TestFilterANDSemantics(t *testing.T) {
	records := testRecords()

	// both terms must appear somewhere in the searchable fields
	got := Filter(records, DefaultFields, "gpt 4")
	require.Len(t, got, 1)
	assert.Equal(t, "GPT-4 Turbo", got[0].ModelName)

	// single term matches across records, case-insensitively
	got = Filter(records, DefaultFields, "GPT")
	assert.Len(t, got, 2)

	// terms may match different fields of the same record
	got = Filter(records, DefaultFields, "openai turbo")
	assert.Len(t, got, 2)
}

func TestFilterNoMatches(t *testing.T) {
	got := Filter(testRecords(), DefaultFields, "nonexistent")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterSearchesDescriptions(t *testing.T) {
	got := Filter(testRecords(), DefaultFields, "multimodal")
	require.Len(t, got, 1)
	assert.Equal(t, "Gemini Pro", got[0].ModelName)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(10, 3, "  GPT 4  ")
	assert.Equal(t, 10, stats.TotalItems)
	assert.Equal(t, 3, stats.FilteredItems)
	assert.True(t, stats.ActiveSearch)
	assert.Equal(t, []string{"gpt", "4"}, stats.Terms)

	idle := ComputeStats(10, 10, "")
	assert.False(t, idle.ActiveSearch)
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	calls := make(chan int, 10)
	for i := 1; i <= 5; i++ {
		n := i
		d.Submit(func() { calls <- n })
	}
	assert.True(t, d.Pending())

	// only the last submission fires
	select {
	case n := <-calls:
		assert.Equal(t, 5, n)
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}

	select {
	case n := <-calls:
		t.Fatalf("superseded call %d fired", n)
	case <-time.After(100 * time.Millisecond):
	}
	assert.False(t, d.Pending())
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Submit(func() { fired <- struct{}{} })
	d.Cancel()
	assert.False(t, d.Pending())

	select {
	case <-fired:
		t.Fatal("cancelled call fired")
	case <-time.After(80 * time.Millisecond):
	}
}
