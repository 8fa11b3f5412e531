package static

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"slices"

	"github.com/klauspost/compress/gzip"

	"website.app/v2/internal/crypto"
)

func newBundles(ext string) *bundles { return &bundles{ext: ext} }

// bundles keeps gzipped concatenations of source files. A bundle is served
// under its name plus content hash, so browsers may cache it forever.
type bundles struct {
	ext string

	byFilename map[string][]byte
	filenames  map[string]string
}

// Generate builds every bundle of manifest, a JSON object of bundle names to
// source files. An empty manifest keeps bundles built before.
func (self *bundles) Generate(ctx context.Context, fsys fs.ReadFileFS,
	manifest []byte,
) error {
	var sources map[string][]string
	if err := json.Unmarshal(manifest, &sources); err != nil {
		return fmt.Errorf("unmarshal manifest: %w", err)
	} else if len(sources) == 0 {
		return nil
	}

	byFilename := make(map[string][]byte, len(sources))
	filenames := make(map[string]string, len(sources))
	for _, name := range slices.Sorted(maps.Keys(sources)) {
		b, err := gzipFiles(ctx, fsys, sources[name])
		if err != nil {
			return fmt.Errorf("bundle %q: %w", name, err)
		}
		filename := name + "." + crypto.HashFromBytes(b) + self.ext
		byFilename[filename], filenames[name] = b, filename
	}

	self.byFilename, self.filenames = byFilename, filenames
	return nil
}

func gzipFiles(ctx context.Context, fsys fs.ReadFileFS, names []string,
) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("new gzip writer: %w", err)
	}

	for _, name := range names {
		if err := context.Cause(ctx); err != nil {
			return nil, fmt.Errorf("interrupted before %q: %w", name, err)
		}
		data, err := fsys.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", name, err)
		} else if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("gzip %q: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Bundle returns the gzipped content of filename or nil.
func (self *bundles) Bundle(filename string) []byte {
	return self.byFilename[filename]
}

// NameExt returns the hashed file name of bundle name. Unknown names get ext
// only.
func (self *bundles) NameExt(name string) string {
	if filename, ok := self.filenames[name]; ok {
		return filename
	}
	return name + self.ext
}
