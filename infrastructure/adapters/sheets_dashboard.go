package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/config"
	"github.com/shakedma/avatar-pipeline/domain"
)

// Column layout of the tracking sheet. Script Name doubles as the run
// key, so one run occupies one row across its transitions.
var dashboardHeaders = []interface{}{
	"Timestamp",
	"Script Name",
	"Script Length",
	"Audio File",
	"Video File",
	"Storage Link",
	"Status",
	"Duration (s)",
	"Error Message",
}

type sheetsDashboard struct {
	sheetsSvc    *sheets.Service
	googleConfig *config.GoogleConfig
}

func NewSheetsDashboard(ctx context.Context, googleConfig *config.GoogleConfig) (outbound.DashboardPort, error) {
	sheetsSvc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(googleConfig.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, err
	}
	return &sheetsDashboard{
		sheetsSvc:    sheetsSvc,
		googleConfig: googleConfig,
	}, nil
}

func (d *sheetsDashboard) Upsert(ctx context.Context, record domain.DashboardRecord) error {
	row := recordToRow(record)
	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	readRange := fmt.Sprintf("%s!A:I", d.googleConfig.SheetName)

	existing, err := d.sheetsSvc.Spreadsheets.Values.
		Get(d.googleConfig.SheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		return err
	}

	if len(existing.Values) == 0 {
		if err := d.writeHeaders(ctx); err != nil {
			return err
		}
	}

	// Row 1 is the header; runs are keyed by the Script Name column.
	for i, existingRow := range existing.Values {
		if i == 0 || len(existingRow) < 2 {
			continue
		}
		if fmt.Sprint(existingRow[1]) == record.RunID {
			updateRange := fmt.Sprintf("%s!A%d:I%d", d.googleConfig.SheetName, i+1, i+1)
			_, err := d.sheetsSvc.Spreadsheets.Values.
				Update(d.googleConfig.SheetID, updateRange, valueRange).
				ValueInputOption("RAW").
				Context(ctx).Do()
			return err
		}
	}

	_, err = d.sheetsSvc.Spreadsheets.Values.
		Append(d.googleConfig.SheetID, readRange, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("runID", record.RunID).Msg("Failed to append dashboard row")
	}
	return err
}

func (d *sheetsDashboard) writeHeaders(ctx context.Context) error {
	headerRange := fmt.Sprintf("%s!A1:I1", d.googleConfig.SheetName)
	_, err := d.sheetsSvc.Spreadsheets.Values.
		Update(d.googleConfig.SheetID, headerRange, &sheets.ValueRange{Values: [][]interface{}{dashboardHeaders}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return err
}

func recordToRow(record domain.DashboardRecord) []interface{} {
	return []interface{}{
		record.Timestamp.Format(time.RFC3339),
		record.RunID,
		record.ScriptLength,
		record.AudioFile,
		record.VideoFile,
		record.StorageLink,
		string(record.Status),
		int(record.Duration.Seconds()),
		record.ErrorMessage,
	}
}
