package aggregator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExtension(t *testing.T) {
	assert.Equal(t, ".dart", NormalizeExtension(""))
	assert.Equal(t, ".dart", NormalizeExtension("dart"))
	assert.Equal(t, ".go", NormalizeExtension(" .go "))
	assert.Equal(t, ".g.dart", NormalizeExtension("g.dart"))
}

func TestDefaultConsolidatedName(t *testing.T) {
	assert.Equal(t, "all_dart_files.txt", DefaultConsolidatedName(""))
	assert.Equal(t, "all_py_files.txt", DefaultConsolidatedName("py"))
	assert.Equal(t, "all_py_files.txt", DefaultConsolidatedName(".py"))
}

func TestWriteEntry(t *testing.T) {
	var buf bytes.Buffer
	err := writeEntry(&buf, ConsolidatedHeader("button.dart", "widgets"), []byte("class Button {}"))
	assert.NoError(t, err)
	assert.Equal(t, "--- Content of button.dart in folder widgets ---\nclass Button {}\n\n", buf.String())

	buf.Reset()
	assert.NoError(t, writeEntry(&buf, FolderHeader("empty.dart"), nil))
	assert.Equal(t, "--- Content of empty.dart ---\n\n\n", buf.String())
}
