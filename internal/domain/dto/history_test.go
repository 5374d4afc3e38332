package dto

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopelouisville/dashboard/internal/domain"
)

func TestHistoryBuilderFirstNonZeroWins(t *testing.T) {
	b := NewHistoryBuilder()
	b.Put(domain.HistoricalPoint{Year: 2023, Total: 1157, Sheltered: 0, Unsheltered: 477})
	b.Put(domain.HistoricalPoint{Year: 2023, Total: 1200, Sheltered: 680, Unsheltered: 500})
	b.Put(domain.HistoricalPoint{Year: 2021, Total: 1020})

	series := b.Series()
	require.Len(t, series, 2)
	assert.Equal(t, domain.HistoricalPoint{Year: 2021, Total: 1020}, series[0])
	assert.Equal(t, domain.HistoricalPoint{Year: 2023, Total: 1157, Sheltered: 680, Unsheltered: 477}, series[1])
}

func TestHistoryBuilderDerivesTotalAndDropsEmpty(t *testing.T) {
	b := NewHistoryBuilder()
	b.Put(domain.HistoricalPoint{Year: 2019, Sheltered: 600, Unsheltered: 300})
	b.Put(domain.HistoricalPoint{Year: 2020})
	b.Put(domain.HistoricalPoint{Total: 10})

	series := b.Series()
	require.Len(t, series, 1)
	assert.Equal(t, 900, series[0].Total)
	assert.Equal(t, 2, b.Len())
}

func TestHistoryBuilderConcurrentPut(t *testing.T) {
	b := NewHistoryBuilder()
	var wg sync.WaitGroup
	for year := 2000; year < 2020; year++ {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()
			b.Put(domain.HistoricalPoint{Year: year, Total: year})
		}(year)
	}
	wg.Wait()

	series := b.Series()
	require.Len(t, series, 20)
	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i-1].Year, series[i].Year)
	}
}
