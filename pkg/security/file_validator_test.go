package security

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestValidateCVFile(t *testing.T) {
	t.Run("Should accept a pdf", func(t *testing.T) {
		res := ValidateCVFile("cv.PDF", minimalPDF, 1024)
		assert.True(t, res.Valid, res.Error)
		assert.Equal(t, ".pdf", res.Extension)
		assert.Equal(t, PDFMIME, res.DetectedMIME)
	})

	t.Run("Should reject an empty file", func(t *testing.T) {
		res := ValidateCVFile("cv.pdf", nil, 1024)
		assert.False(t, res.Valid)
		assert.Equal(t, "file is empty", res.Error)
	})

	t.Run("Should reject an oversized file", func(t *testing.T) {
		data := append([]byte{}, minimalPDF...)
		data = append(data, bytes.Repeat([]byte("a"), 100)...)
		res := ValidateCVFile("cv.pdf", data, 50)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "maximum")
	})

	t.Run("Should reject other extensions", func(t *testing.T) {
		res := ValidateCVFile("cv.docx", minimalPDF, 1024)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, ".docx")
	})

	t.Run("Should reject spoofed content", func(t *testing.T) {
		res := ValidateCVFile("cv.pdf", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, 1024)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "spoofing")
	})

	t.Run("Should reject a file without extension", func(t *testing.T) {
		res := ValidateCVFile("cv", minimalPDF, 1024)
		assert.False(t, res.Valid)
	})
}
