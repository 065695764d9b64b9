package render

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
)

func TestLetterRendersPDF(t *testing.T) {
	r := NewRenderer(Options{
		EventName: "ECOFEST 2025",
		SiteURL:   "https://ecofest.app",
	})

	reg := registration.New(uuid.New(), "Awa", "Diallo", "awa@example.com", registration.ProfilePress)
	reg.ID = uuid.New()
	reg.Nationality = "Senegal"
	reg.Origin = "Radio Dakar"

	artifact, err := r.Letter(reg)

	require.NoError(t, err)
	require.NotNil(t, artifact)
	assert.Equal(t, blob.LetterPath(reg.ID), artifact.Path)
	assert.Equal(t, "application/pdf", artifact.MIME)
	require.Greater(t, len(artifact.Bytes), 4)
	assert.Equal(t, "%PDF", string(artifact.Bytes[:4]))
}

func TestLetterOmitsEmptyFields(t *testing.T) {
	r := NewRenderer(Options{EventName: "ECOFEST 2025"})

	reg := registration.New(uuid.New(), "Jean", "Koffi", "jean@example.com", registration.ProfileStaff)
	reg.ID = uuid.New()

	artifact, err := r.Letter(reg)

	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Bytes)
}
