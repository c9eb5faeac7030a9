package sheets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/sportanalytics/internal/gymstats/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVSource_Fetch(t *testing.T) {
	path := writeFile(t, "export.csv", "\xef\xbb\xbfMUSCU,,,,,\n"+
		"Date,Exercice,Muscle,Série,Poids,Reps\n"+
		"03/01/2024,Squat,Jambes,1,80,8\n"+
		"03/01/2024,,Jambes,2,80,8\n"+
		"10/01/2024,\"Développé, couché\",Pectoraux,1,60,10\n")

	src := NewCSVSource(path, 2)
	assert.Equal(t, "csv", src.Name())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Squat", records[0]["Exercice"])
	assert.Nil(t, records[1]["Exercice"])
	assert.Equal(t, "Développé, couché", records[2]["Exercice"])
}

func TestCSVSource_Semicolon(t *testing.T) {
	path := writeFile(t, "export.csv", "Date;Exercice;Série;Poids;Reps\n03/01/2024;Squat;1;82,5;8\n")

	records, err := NewCSVSource(path, 1).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "82,5", records[0]["Poids"])

	entries, err := workouts.Normalize(records)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 82.5, entries[0].Weight)
}

func TestCSVSource_Errors(t *testing.T) {
	_, err := NewCSVSource("/non/existent.csv", 1).Fetch(context.Background())
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeFile(t, "export.csv", "Date\n")
	_, err = NewCSVSource(path, 1).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXLSXSource_Fetch(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("DATA")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("DATA", "A1", &[]any{"MUSCU"}))
	require.NoError(t, f.SetSheetRow("DATA", "A2", &[]any{"Date", "Exercice", "Muscle", "Série", "Poids", "Reps", nil, "Notes"}))
	require.NoError(t, f.SetSheetRow("DATA", "A3", &[]any{
		time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), "Squat", "Jambes", 1, 82.5, 8, nil, "ok",
	}))
	require.NoError(t, f.SetSheetRow("DATA", "A4", &[]any{"10/04/2024", "Squat", "Jambes", 2, 85, 6}))
	require.NoError(t, f.SetSheetRow("DATA", "A5", &[]any{"10/04/2024", "", "Jambes", 3, 85, 6}))
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	src := NewXLSXSource(path, "DATA", 2)
	assert.Equal(t, "xlsx", src.Name())
	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 82.5, records[0]["Poids"])

	entries, err := workouts.Normalize(records)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), entries[0].Date)
	assert.Equal(t, map[string]string{"Notes": "ok"}, entries[0].Metadata)
	assert.Equal(t, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), entries[1].Date)
	assert.Equal(t, 6, entries[1].Reps)
}

func TestXLSXSource_MissingWorksheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewXLSXSource(path, "DATA", 2).Fetch(context.Background())
	require.ErrorContains(t, err, `worksheet "DATA" not found`)
}
