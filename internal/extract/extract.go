// Package extract pulls answer-context text out of uploaded file blobs.
package extract

import "strings"

const (
	contentTypeJSON = "application/json"
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	pdfUnsupported  = "Error: Could not extract text from PDF file"
	docxUnsupported = "DOCX processing will be implemented soon"
)

// Text returns the extractable text for a blob. text/* and JSON content is
// returned verbatim; PDF and DOCX get fixed placeholder strings until real
// parsers are wired; anything else a generic unsupported message.
func Text(contentType string, data []byte) string {
	switch {
	case strings.HasPrefix(contentType, "text/"), contentType == contentTypeJSON:
		return string(data)
	case contentType == contentTypePDF:
		return pdfUnsupported
	case contentType == contentTypeDOCX:
		return docxUnsupported
	default:
		return "File type " + contentType + " is not supported for text extraction"
	}
}
