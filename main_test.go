package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/rpupo63/portfolio-backend/models"
)

func TestAdminCredentials(t *testing.T) {
	creds := adminCredentials(map[string]string{"ADMIN_PASSWORD": "pw"})
	assert.Equal(t, "admin", creds.Username)
	assert.True(t, creds.Configured())
	assert.True(t, creds.Verify("admin", "pw"))

	assert.False(t, adminCredentials(map[string]string{}).Configured())
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	setupLogging(map[string]string{"LOG_LEVEL": "WARN", "ENVIRONMENT": "production"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	setupLogging(map[string]string{"LOG_LEVEL": "loud", "ENVIRONMENT": "production"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	printCatalog(&buf, models.Catalog{
		Projects: []models.Project{
			{ID: 1, Title: "Site", Technologies: []string{"Go", "React"}, Featured: true},
			{ID: 4, Title: "Notes", Technologies: []string{}},
		},
		Skills: []models.Skill{
			{Name: "Go", Level: 90, Category: models.CategoryBackend},
			{Name: "CSS", Level: 60, Category: models.CategoryFrontend},
			{Name: "Rust", Level: 40, Category: models.CategoryBackend},
		},
		CurrentlyLearning: []string{"Zig"},
	})

	out := buf.String()
	assert.Contains(t, out, "Projects (2, 1 featured)")
	assert.Contains(t, out, "*   1  Site  [Go, React]\n")
	assert.Contains(t, out, "    4  Notes\n")
	assert.Contains(t, out, "  Frontend: CSS 60\n")
	assert.Contains(t, out, "  Backend: Go 90, Rust 40\n")
	assert.NotContains(t, out, "Tools:")
	assert.Contains(t, out, "Currently learning: Zig")
}
