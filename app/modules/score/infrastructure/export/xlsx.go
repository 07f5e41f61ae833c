// Package scoreexport writes point events to spreadsheets.
package scoreexport

import (
	"fmt"
	"io"
	"time"

	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the events.
const SheetName = "Points"

var header = []any{"ID", "Guild", "Sender", "Receiver", "Category", "Value", "Created At"}

// WritePointEvents writes one header row and one row per event as an xlsx
// workbook to w.
func WritePointEvents(w io.Writer, events []scoretypes.PointEvent) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range events {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.ID.String(),
			string(e.GuildID),
			string(e.SenderID),
			string(e.ReceiverID),
			e.Category,
			e.Value,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
