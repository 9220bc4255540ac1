package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDSanitizesFilename(t *testing.T) {
	id := publicID("../laporan akhir (final).pdf")

	assert.True(t, strings.HasSuffix(id, "_laporan_akhir__final_"), id)
	assert.NotContains(t, id, "/")
	assert.NotContains(t, id, " ")
}

func TestPublicIDIsUnique(t *testing.T) {
	assert.NotEqual(t, publicID("cv.pdf"), publicID("cv.pdf"))
}

