package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gym-wars/internal/domain"
)

func fakeParticipants(t *testing.T, n int) []domain.Participant {
	t.Helper()
	faker := gofakeit.New(42)
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	out := make([]domain.Participant, n)
	for i := range out {
		out[i] = domain.Participant{
			ID:        faker.UUID(),
			Email:     faker.Email(),
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Phone:     faker.Phone(),
			Role:      domain.RoleMember,
			GymName:   faker.Company(),
			Events:    []string{"2025-10-11"},
			CreatedAt: created,
			UpdatedAt: created,
		}
	}
	return out
}

func TestWriteCSV(t *testing.T) {
	participants := fakeParticipants(t, 3)
	participants[0].FirstName = `Jo "JJ", Jr`
	participants[1].Events = []string{"2025-10-11", "2026-04-18"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, participants))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, Columns, records[0])
	assert.Equal(t, `Jo "JJ", Jr`, records[1][2])
	assert.Equal(t, "2025-10-11|2026-04-18", records[2][10])
	assert.Equal(t, "2025-09-01T12:00:00Z", records[1][11])
	assert.Equal(t, participants[2].Email, records[3][1])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,email,firstName,lastName,role,phone,gymName,gymId,emergencyContact,emergencyContactPhone,events,createdAt,updatedAt\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	participants := fakeParticipants(t, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, participants))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, participants[1].Email, rows[2][1])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.True(t, domain.IsValidationError(err))
}
