package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Title", "Artist", "Year"},
		Rows: []map[string]string{
			{"Title": "Álbum 1", "Artist": "Artista 1", "Year": "2020"},
			{"Title": "Álbum 2", "Artist": "Artista 2", "Year": "2021"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Title,Artist,Year")
	assert.Contains(t, string(payload), "Álbum 1,Artista 1,2020")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDataset(), "Albums")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	payload, err := NewXLSXExporter().Render(sampleDataset(), "Albums")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows("Albums")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Title", "Artist", "Year"}, rows[0])
	assert.Equal(t, "Álbum 1", rows[1][0])
}
