package extract

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		data        string
		want        string
	}{
		{"plain text", "text/plain", "hello notes", "hello notes"},
		{"markdown", "text/markdown", "# heading", "# heading"},
		{"json", "application/json", `{"k":"v"}`, `{"k":"v"}`},
		{"pdf placeholder", "application/pdf", "%PDF-1.4", pdfUnsupported},
		{
			"docx placeholder",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"PK..",
			docxUnsupported,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.contentType, []byte(tc.data)); got != tc.want {
				t.Errorf("Text(%q) = %q, want %q", tc.contentType, got, tc.want)
			}
		})
	}
}

func TestText_UnknownType(t *testing.T) {
	got := Text("image/png", []byte{1, 2, 3})
	if !strings.Contains(got, "image/png") || !strings.Contains(got, "not supported") {
		t.Errorf("unexpected message: %q", got)
	}
}
