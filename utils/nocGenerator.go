package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"noc/config"
	"noc/models"
)

// NocFileName returns the deterministic artifact name for an application.
func NocFileName(app *models.Application) string {
	return fmt.Sprintf("NOC_%s_%d.pdf", app.RegistrationNumber, app.ID)
}

// GenerateNOC writes the No Objection Certificate for an approved application
// and returns its path. The output is a pure function of the application
// fields, so calling it twice yields the same path and the same bytes; an
// existing file short-circuits the write.
func GenerateNOC(app *models.Application) (string, error) {
	if err := os.MkdirAll(config.AppConfig.NocDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(config.AppConfig.NocDir, NocFileName(app))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	company := app.CompanyName
	if app.NocType == models.NocTypeGeneric {
		company = "the offering organisation"
	}

	lines := []string{
		"NO OBJECTION CERTIFICATE",
		"",
		fmt.Sprintf("Ref: %s", NocFileName(app)),
		"",
		"TO WHOMSOEVER IT MAY CONCERN",
		"",
		fmt.Sprintf("This is to certify that %s (Reg. No. %s),", app.Name, app.RegistrationNumber),
		fmt.Sprintf("a student of the Department of %s, has no objection", app.Department),
		fmt.Sprintf("from the institution to undertake an internship with %s", company),
		fmt.Sprintf("from %s to %s.", app.StartDate.Format("02 Jan 2006"), app.EndDate.Format("02 Jan 2006")),
		"",
		"This certificate is issued on the recommendation of the Faculty",
		"Placement Coordinator and the Head of Department.",
		"",
		"Placement Cell",
	}

	if err := os.WriteFile(path, buildPdf(lines), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// buildPdf assembles a minimal single-page PDF around the given text lines.
// No PDF toolkit is pulled in for this; the certificate is plain text on a
// letter page.
func buildPdf(lines []string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n72 720 Td\n14 TL\n")
	for _, line := range lines {
		content.WriteString(fmt.Sprintf("(%s) Tj\nT*\n", escapePdfText(line)))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj))
	}

	xrefStart := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(objects)+1))
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefStart))

	return []byte(buf.String())
}

func escapePdfText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
