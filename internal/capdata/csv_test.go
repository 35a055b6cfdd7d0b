package capdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	data := "cap,comune\n20121, Milano \n20121,MILANO\n00184,Roma\n"

	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"milano", "milano"}, table.CitiesFor("20121"))
	assert.Equal(t, []string{"roma"}, table.CitiesFor("00184"))
}

func TestReadCSVColumnOrderAndExtras(t *testing.T) {
	data := "provincia,comune,cap\nMI,Milano,20121\nRM,Roma,00184\n"

	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.True(t, table.Has("20121", "milano"))
	assert.True(t, table.Has("00184", "roma"))
}

func TestReadCSVByteOrderMark(t *testing.T) {
	data := "\ufeffcap,comune\n47121,Forlì\n"

	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.True(t, table.Has("47121", "forlì"))
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("postcode,city\n20121,Milano\n"))

	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadCSVShortRowsSkipped(t *testing.T) {
	data := "cap,comune\n20121\n00184,Roma\n"

	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
}

func TestReadCSVEmptyInput(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 0, table.Len())
}

func TestLoadCSVMissingFileIsEmpty(t *testing.T) {
	table, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))

	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoadCSVFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.csv")
	require.NoError(t, os.WriteFile(path, []byte("cap,comune\n10121,Torino\n"), 0o644))

	table, err := LoadCSV(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"torino"}, table.CitiesFor("10121"))
}

func TestLoadCSVSampleData(t *testing.T) {
	table, err := LoadCSV(filepath.Join("..", "..", "sample_data", "cap_comuni.csv"))

	require.NoError(t, err)
	assert.True(t, table.Has("20121", "milano"))
	assert.True(t, table.Has("67100", "l'aquila"))
}
