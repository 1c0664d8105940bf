package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFProcessor_RejectsNonPDF(t *testing.T) {
	p := NewPDFProcessor(6)
	junk := []byte("this is not a pdf document")

	_, err := p.ExtractText(junk, "")
	assert.ErrorContains(t, err, "failed to open pdf")

	_, err = p.ExtractText(junk, "secret")
	assert.ErrorContains(t, err, "failed to decrypt pdf")

	_, err = p.ExtractImages(junk, "")
	assert.ErrorContains(t, err, "failed to extract images")
}
