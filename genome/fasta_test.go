package genome

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
)

func TestLoadFASTA(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(dir, "ref.fa")
	content := ">chr1\nACGTACGTAC\nGT\n>chr2 some description\nTTTTGGGG\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	view, err := LoadFASTA(vcontext.Background(), path)
	assert.NoError(t, err)
	assert.EQ(t, view.Len(), Locus(20))

	got, ok := view.GetSubstring(0, 12)
	assert.True(t, ok, "GetSubstring(0,12) should succeed")
	assert.EQ(t, string(got), "ACGTACGTACGT")

	got, ok = view.GetSubstring(12, 8)
	assert.True(t, ok, "GetSubstring(12,8) should succeed")
	assert.EQ(t, string(got), "TTTTGGGG")
}

func TestLoadFASTAMissingFile(t *testing.T) {
	_, err := LoadFASTA(vcontext.Background(), "/nonexistent/path/ref.fa")
	assert.True(t, err != nil, "LoadFASTA of a missing file should error")
}
