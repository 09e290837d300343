// Package export renders participant lists as CSV or Excel downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gym-wars/internal/domain"
)

// Formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Columns is the fixed header of every participant export.
var Columns = []string{
	"id",
	"email",
	"firstName",
	"lastName",
	"role",
	"phone",
	"gymName",
	"gymId",
	"emergencyContact",
	"emergencyContactPhone",
	"events",
	"createdAt",
	"updatedAt",
}

const sheetName = "Participants"

// Record renders one participant in column order.
func Record(p domain.Participant) []string {
	return []string{
		p.ID,
		p.Email,
		p.FirstName,
		p.LastName,
		string(p.Role),
		p.Phone,
		p.GymName,
		p.GymID,
		p.EmergencyContact,
		p.EmergencyContactPhone,
		strings.Join(p.Events, "|"),
		timestamp(p.CreatedAt),
		timestamp(p.UpdatedAt),
	}
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ContentType returns the MIME type and download file name for format.
func ContentType(format string) (contentType, filename string) {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "participants.xlsx"
	}
	return "text/csv; charset=utf-8", "participants.csv"
}

// ParseFormat maps a query value to a format. Empty means CSV.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", domain.InvalidField("format", "Unknown export format: "+s)
	}
}

// Write renders participants in format to w.
func Write(w io.Writer, format string, participants []domain.Participant) error {
	if format == FormatXLSX {
		return WriteXLSX(w, participants)
	}
	return WriteCSV(w, participants)
}

// WriteCSV writes a header row and one row per participant.
func WriteCSV(w io.Writer, participants []domain.Participant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, p := range participants {
		if err := cw.Write(Record(p)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the same table as a single-sheet workbook.
func WriteXLSX(w io.Writer, participants []domain.Participant) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := setRow(f, 1, Columns); err != nil {
		return err
	}
	for i, p := range participants {
		if err := setRow(f, i+2, Record(p)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolving cell: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
