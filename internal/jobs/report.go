package jobs

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"pixeltrack/api/internal/models"
)

var reportHeader = []string{
	"campaign_id", "campaign_name", "group_id", "contact_uuid",
	"pixel_uuid", "contact_pixel_number", "view_datetime",
}

// RenderReportCSV renders the exported views report.
func RenderReportCSV(rows []models.ViewReportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(reportHeader)
	for _, row := range rows {
		_ = w.Write([]string{
			strconv.Itoa(row.CampaignID),
			row.CampaignName,
			strconv.Itoa(row.GroupID),
			row.ContactUUID,
			row.PixelUUID,
			strconv.Itoa(row.SequenceNumber),
			row.ViewedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()

	return buf.Bytes()
}
