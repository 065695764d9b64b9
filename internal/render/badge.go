package render

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
)

const (
	qrSize = 170
	qrX    = 80
	qrY    = 80

	nameX        = 400
	nameY        = 600
	nameFontSize = 55

	nationalityY  = 700
	originY       = 780
	lineShift     = 60
	fieldFontSize = 45

	// maximum characters per name line before wrapping
	maxNameLineLen = 17
)

// defaultTemplate se usa cuando no existe un fondo para el perfil
const defaultTemplate = "DEFAULT.png"

// Badge renders the PNG accreditation badge for an approved registration.
// The background template is picked by profile, falling back to the default
// template when no profile-specific one exists on disk.
func (r *Renderer) Badge(reg *registration.Registration) (*Artifact, error) {
	tmplPath := r.templateFor(reg.Profile)

	bg, err := gg.LoadImage(tmplPath)
	if err != nil {
		r.log.Error("No se pudo cargar la plantilla del badge", "template", tmplPath, "error", err)
		return nil, fmt.Errorf("loading badge template %s: %w", filepath.Base(tmplPath), err)
	}

	dc := gg.NewContextForImage(bg)

	qr, err := qrcode.New(QRPayload(r.opts.EventCode, reg), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generating QR code: %w", err)
	}
	dc.DrawImage(qr.Image(qrSize), qrX, qrY)

	boldFont := filepath.Join(r.opts.FontDir, "DejaVuSans-Bold.ttf")
	if err := dc.LoadFontFace(boldFont, nameFontSize); err != nil {
		return nil, fmt.Errorf("loading font %s: %w", filepath.Base(boldFont), err)
	}

	dc.SetRGB(0, 0, 0)

	lines := SplitName(reg.FullName())
	for i, line := range lines {
		dc.DrawStringAnchored(line, nameX, float64(nameY+i*lineShift), 0.5, 0.5)
	}

	// con dos líneas de nombre todo lo demás baja un renglón
	shift := 0
	if len(lines) > 1 {
		shift = lineShift
	}

	regularFont := filepath.Join(r.opts.FontDir, "DejaVuSans.ttf")
	if err := dc.LoadFontFace(regularFont, fieldFontSize); err != nil {
		return nil, fmt.Errorf("loading font %s: %w", filepath.Base(regularFont), err)
	}

	if reg.Nationality != "" {
		dc.DrawStringAnchored(reg.Nationality, nameX, float64(nationalityY+shift), 0.5, 0.5)
	}
	if reg.Origin != "" {
		dc.DrawStringAnchored(reg.Origin, nameX, float64(originY+shift), 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encoding badge PNG: %w", err)
	}

	r.log.Debug("Badge generado", "registration_id", reg.ID, "profile", reg.Profile.String(), "lines", len(lines))

	return &Artifact{
		Path:  blob.BadgePath(reg.ID),
		Bytes: buf.Bytes(),
		MIME:  "image/png",
	}, nil
}

// templateFor resolves the background template for a profile. Template files
// are named after the uppercased profile (ALL_ACCESS.png, PRESS.png, ...).
func (r *Renderer) templateFor(profile registration.Profile) string {
	name := strings.ToUpper(strings.TrimSpace(profile.String())) + ".png"
	path := filepath.Join(r.opts.BadgeDir, name)
	if _, err := os.Stat(path); err != nil {
		return filepath.Join(r.opts.BadgeDir, defaultTemplate)
	}
	return path
}

// QRPayload builds the string encoded in the badge QR code.
func QRPayload(eventCode string, reg *registration.Registration) string {
	return fmt.Sprintf("%s-%s-%s", eventCode, reg.ID, reg.Email)
}

// SplitName wraps a full name into at most two lines of maxNameLineLen
// characters. Words are never split mid-word; a single word longer than a
// line is truncated instead. The budget counts runes, not bytes, so
// accented names wrap at the same visual width as plain ASCII ones.
func SplitName(name string) []string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""

	for _, word := range words {
		if runes := []rune(word); len(runes) > maxNameLineLen {
			word = string(runes[:maxNameLineLen])
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxNameLineLen:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}

		if len(lines) == 2 {
			return lines
		}
	}

	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) > 2 {
		lines = lines[:2]
	}
	return lines
}
