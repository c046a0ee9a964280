package rename

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/sfomuseum/go-image-rename/common"
	"github.com/sfomuseum/go-image-rename/metadata"
	"github.com/sfomuseum/go-image-rename/operations/enumerate"
)

// nameTimeLayout formats capture timestamps as a fixed-width,
// lexicographically sortable string.
const nameTimeLayout = "20060102_150405"

// minIndexWidth is the minimum zero-padding applied to sequential indices.
const minIndexWidth = 3

// shortHashLength is the number of filename-hash characters appended to
// disambiguate colliding metadata-derived names.
const shortHashLength = 8

// NameGenerator computes deterministic destination filenames for one
// renaming run. Names issued by a single generator instance are unique.
type NameGenerator struct {
	base       string
	sequential bool
	width      int
	used       map[string]bool
}

// NewNameGenerator returns a NameGenerator for a run of total files using
// base as the filename prefix. When sequential is true every name is derived
// from the enumeration index; otherwise names are derived from capture
// metadata, falling back to the sequential form for files without a
// timestamp.
func NewNameGenerator(base string, sequential bool, total int) *NameGenerator {

	width := len(strconv.Itoa(max(total-1, 0)))

	if width < minIndexWidth {
		width = minIndexWidth
	}

	return &NameGenerator{
		base:       base,
		sequential: sequential,
		width:      width,
		used:       make(map[string]bool),
	}
}

// NameFor computes the destination filename for src. The original file
// extension is preserved as-is.
func (g *NameGenerator) NameFor(src *enumerate.SourceImage, m *metadata.ImageMetadata) string {

	ext := filepath.Ext(src.Path)

	var name string

	if g.sequential || m == nil || !m.HasTimestamp() {
		name = g.sequentialName(src.Index, ext)
	} else {
		name = g.metadataName(src, m, ext)
	}

	g.used[name] = true
	return name
}

func (g *NameGenerator) sequentialName(index int, ext string) string {
	return fmt.Sprintf("%s_%0*d%s", g.base, g.width, index, ext)
}

func (g *NameGenerator) metadataName(src *enumerate.SourceImage, m *metadata.ImageMetadata, ext string) string {

	stem := fmt.Sprintf("%s_%s", g.base, m.Taken.Format(nameTimeLayout))

	if m.CameraModel != "" {
		stem = fmt.Sprintf("%s_%s", stem, m.CameraModel)
	}

	name := stem + ext

	if !g.used[name] {
		return name
	}

	// Two files captured in the same second by the same camera: the hash of
	// the full original path keeps the name unique and reproducible.

	name = fmt.Sprintf("%s_%s%s", stem, common.ShortHash(src.Path, shortHashLength), ext)

	if !g.used[name] {
		return name
	}

	return g.sequentialName(src.Index, ext)
}
