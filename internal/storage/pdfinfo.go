package storage

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// CountPDFPages opens the file at path and returns its page count. Page
// counting is best effort; callers treat a failure as zero pages rather
// than rejecting the upload.
func CountPDFPages(path string) (int, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()
	return reader.NumPage(), nil
}
