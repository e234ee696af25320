package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

func TestWriteNeighbourhoodWorkbook(t *testing.T) {
	avg := 155.0
	stats := []types.NeighbourhoodStat{
		{Neighbourhood: "Louvre", Count: 4, AvgPrice: &avg, EntireCount: 2, EntireShare: 50},
		{Neighbourhood: "Opéra", Count: 1, EntireCount: 0, EntireShare: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteNeighbourhoodWorkbook(&buf, stats))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"Louvre", "4", "155", "2", "50"}, rows[1])
	assert.Equal(t, "Opéra", rows[2][0])
	assert.Equal(t, "", rows[2][2], "missing average price stays empty")
}
