package security

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// PDFMIME is the only content type accepted for uploaded CVs.
const PDFMIME = "application/pdf"

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	Error        string // Error message if validation failed
}

var pdfMagic = []byte{0x25, 0x50, 0x44, 0x46} // %PDF

// ValidateCVFile performs the layered CV check:
// 1. Size limit
// 2. Extension must be .pdf
// 3. Magic bytes must match
// 4. Sniffed MIME type must be application/pdf
func ValidateCVFile(filename string, data []byte, maxBytes int) FileValidationResult {
	result := FileValidationResult{}

	if len(data) == 0 {
		result.Error = "file is empty"
		return result
	}
	if maxBytes > 0 && len(data) > maxBytes {
		result.Error = "file exceeds the maximum allowed size"
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext
	if ext != ".pdf" {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		result.Error = "file content does not match extension (potential file spoofing detected)"
		return result
	}

	result.DetectedMIME = mimetype.Detect(data).String()
	if !mimetype.EqualsAny(result.DetectedMIME, PDFMIME) {
		result.Error = "MIME type not allowed: " + result.DetectedMIME
		return result
	}

	result.Valid = true
	return result
}
