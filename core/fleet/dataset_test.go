package fleet

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `ID,Vehicle Type,Size,Year,Cost,Yearly Range,Distance
V1,Diesel Truck,Large,2018,"500,000",2018-2030,120000
V2,Electric Car,Small,2022,120000,2022-2034,
`

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "V1", ds.Rows[0].ID)
	assert.Equal(t, 2018, ds.Rows[0].Year)
	assert.True(t, ds.Rows[0].Cost.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, 120000.0, ds.Rows[0].Distance)
	assert.Equal(t, 0.0, ds.Rows[1].Distance)
	assert.Equal(t, []string{"V2", "Electric Car", "Small", "2022", "120000", "2022-2034", "0"}, ds.Rows[1].Cells())
}

func TestParse_HeaderNormalization(t *testing.T) {
	in := "\ufeffid , vehicle type,SIZE,year,cost,yearly range,distance,notes\nA,Van,Medium,2020,1,r,2,x\n"
	ds, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "A", ds.Rows[0].ID)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = Parse(strings.NewReader("ID,Vehicle Type\nA,Van\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Parse(strings.NewReader("ID,Vehicle Type,Size,Year,Cost,Yearly Range,Distance\nA,Van,Small,twenty,1,r,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse(strings.NewReader("ID,Vehicle Type,Size,Year,Cost,Yearly Range,Distance\n,Van,Small,2020,1,r,2\n"))
	assert.Error(t, err)
}

func TestDatasetLenNil(t *testing.T) {
	var d *Dataset
	assert.Equal(t, 0, d.Len())
}
