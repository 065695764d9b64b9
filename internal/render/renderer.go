package render

import (
	"github.com/charmbracelet/log"

	"github.com/ecofest/accreditation-api/internal/logger"
)

// Artifact is a rendered file ready to be persisted and attached to email.
type Artifact struct {
	Path  string // blob path relative to the storage root
	Bytes []byte
	MIME  string
}

// Options configures the renderer with the asset locations it draws from.
type Options struct {
	// BadgeDir contains the per-profile background templates (PNG).
	BadgeDir string
	// FontDir contains the TTF fonts used on the badge.
	FontDir string
	// EventCode is embedded in the QR payload of every badge.
	EventCode string
	// EventName appears on the invitation letter heading.
	EventName string
	// SiteURL appears in the letter footer.
	SiteURL string
}

// Renderer produces registration artifacts: the PNG badge and the PDF
// invitation letter.
type Renderer struct {
	opts Options
	log  *log.Logger
}

// NewRenderer creates a renderer bound to the given asset directories.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts: opts,
		log:  logger.Renderer(),
	}
}
