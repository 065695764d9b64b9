package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
)

// Letter renders the PDF invitation letter for an approved registration.
func (r *Renderer) Letter(reg *registration.Registration) (*Artifact, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, r.opts.EventName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, time.Now().Format("January 2, 2006"), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Invitation Letter", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 7, fmt.Sprintf("Dear %s,", reg.FullName()), "", "L", false)
	pdf.Ln(3)

	body := fmt.Sprintf(
		"We are pleased to confirm that your accreditation request has been approved. "+
			"You are invited to attend %s with the %s profile.",
		r.opts.EventName, reg.Profile.Label(),
	)
	pdf.MultiCell(0, 7, body, "", "L", false)
	pdf.Ln(3)

	pdf.MultiCell(0, 7,
		"Your personal badge is attached to the confirmation email. Please present it, "+
			"together with a valid identity document, at the accreditation desk on arrival.",
		"", "L", false)
	pdf.Ln(3)

	if reg.Nationality != "" {
		pdf.MultiCell(0, 7, fmt.Sprintf("Nationality: %s", reg.Nationality), "", "L", false)
	}
	if reg.Origin != "" {
		pdf.MultiCell(0, 7, fmt.Sprintf("Organization / origin: %s", reg.Origin), "", "L", false)
	}
	pdf.Ln(6)

	pdf.MultiCell(0, 7, "We look forward to welcoming you.", "", "L", false)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 11)
	pdf.MultiCell(0, 7, "The Accreditation Team", "", "L", false)

	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, r.opts.SiteURL, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.log.Error("No se pudo generar la carta de invitación", "registration_id", reg.ID, "error", err)
		return nil, fmt.Errorf("rendering invitation letter: %w", err)
	}

	r.log.Debug("Carta de invitación generada", "registration_id", reg.ID, "bytes", buf.Len())

	return &Artifact{
		Path:  blob.LetterPath(reg.ID),
		Bytes: buf.Bytes(),
		MIME:  "application/pdf",
	}, nil
}
