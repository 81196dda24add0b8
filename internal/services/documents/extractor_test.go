package documents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/services"
)

func TestExtract(t *testing.T) {
	e := NewExtractor(services.NoOpLogger{})

	text, err := e.Extract("TXT", []byte("\xef\xbb\xbfSection 9 of the Arbitration Act"))
	require.NoError(t, err)
	assert.Equal(t, "Section 9 of the Arbitration Act", text)

	text, err = e.Extract("txt", []byte("bad \xff byte"))
	require.NoError(t, err)
	assert.Equal(t, "bad � byte", text)

	_, err = e.Extract("docx", []byte("PK"))
	assert.ErrorIs(t, err, ErrUnsupportedExtraction)

	_, err = e.Extract("pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestTextList(t *testing.T) {
	var got struct {
		A TextList `json:"a"`
		B TextList `json:"b"`
		C TextList `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"one thing","b":["x"," ",3],"c":""}`), &got))
	assert.Equal(t, TextList{"one thing"}, got.A)
	assert.Equal(t, TextList{"x", "3"}, got.B)
	assert.Nil(t, got.C)
}
