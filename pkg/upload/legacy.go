package upload

import (
	"path/filepath"

	"github.com/ncruces/go-strftime"

	"github.com/dmitrymomot/filestore/pkg/deprecation"
)

// Fixed messages emitted by the legacy accessors. Kept verbatim so callers
// grepping logs find the same string every time.
const (
	directoryNameDeprecationMsg = "upload: Field now delegates file name and folder processing to the " +
		"storage. DirectoryName() will be removed in filestore/v2."
	fileNameDeprecationMsg = "upload: Field now delegates file name and folder processing to the " +
		"storage. FileName() will be removed in filestore/v2."
)

// DirectoryName returns the literal upload target with strftime directives
// expanded, normalized as a local filesystem path.
//
// Deprecated: naming is delegated to the storage backend; use
// GenerateFilename instead. Each call emits one deprecation warning.
func (f *Field) DirectoryName() string {
	deprecation.Warn(directoryNameDeprecationMsg)
	return filepath.Clean(filepath.FromSlash(strftime.Format(f.target.Path, f.now())))
}

// FileName returns the base component of name passed through the backend's
// ValidName.
//
// Deprecated: naming is delegated to the storage backend; use
// GenerateFilename instead. Each call emits one deprecation warning.
func (f *Field) FileName(name string) string {
	deprecation.Warn(fileNameDeprecationMsg)
	return filepath.Clean(f.storage.ValidName(filepath.Base(filepath.FromSlash(name))))
}
