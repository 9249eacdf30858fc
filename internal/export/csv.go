// internal/export/csv.go

// Package export serializes the email collection to spreadsheet-friendly CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"time"

	"prospector/internal/models"
	"prospector/internal/outreach"
)

// utf8BOM makes Excel detect the encoding; without it accented characters in
// Spanish subjects render garbled.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{"date", "company", "contact_name", "contact_email", "service", "subject", "body"}

// EmailsCSV renders one row per email. Fields containing separators, quotes
// or newlines get standard CSV quoting from encoding/csv. An email whose body
// fails to decode still exports, with the raw body and an empty subject,
// rather than dropping the row.
func EmailsCSV(emails []models.GeneratedEmail) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range emails {
		subject, body := "", e.Body
		if d, err := outreach.DecodeBody(e.Body); err == nil {
			subject, body = d.Subject, d.Body
		}

		row := []string{
			e.CreatedAt.Format(time.RFC3339),
			e.Recipient.CompanyName,
			e.Recipient.Contact.Name,
			e.Recipient.Contact.Email,
			e.Service.Name,
			subject,
			body,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
