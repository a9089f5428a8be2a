package utils

import (
	"bytes"
	"os"
	"testing"
	"time"

	"noc/config"
	"noc/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testApplication() *models.Application {
	app := &models.Application{
		RegistrationNumber: "219301234",
		Name:               "Asha Verma",
		Department:         "CSE",
		NocType:            models.NocTypeSpecific,
		CompanyName:        "Tech Corp",
		StartDate:          time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	app.Model = gorm.Model{ID: 42}
	return app
}

func TestGenerateNOC_Idempotent(t *testing.T) {
	config.AppConfig = &config.Config{NocDir: t.TempDir()}

	app := testApplication()

	first, err := GenerateNOC(app)
	require.NoError(t, err)

	firstBytes, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := GenerateNOC(app)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	secondBytes, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(firstBytes, secondBytes), "repeated generation must yield identical bytes")
}

func TestGenerateNOC_ProducesPdf(t *testing.T) {
	config.AppConfig = &config.Config{NocDir: t.TempDir()}

	path, err := GenerateNOC(testApplication())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "Asha Verma")
	assert.Contains(t, string(data), "219301234")
	assert.Contains(t, string(data), "Tech Corp")
}

func TestGenerateNOC_GenericOmitsCompanyName(t *testing.T) {
	config.AppConfig = &config.Config{NocDir: t.TempDir()}

	app := testApplication()
	app.NocType = models.NocTypeGeneric

	path, err := GenerateNOC(app)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Tech Corp")
}

func TestNocFileName(t *testing.T) {
	assert.Equal(t, "NOC_219301234_42.pdf", NocFileName(testApplication()))
}
