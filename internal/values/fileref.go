package values

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// FileRef pairs a remote file URL with the local path it is downloaded to and
// the filename it should carry on the destination system.
//
// The zero FileRef means "no file"; the download stage produces it by
// clearing a reference whose remote resource turned out to be gone.
type FileRef struct {
	RemotePath     string `json:"remote_path,omitempty"`
	LocalPath      string `json:"local_path,omitempty"`
	CustomFilename string `json:"custom_filename,omitempty"`
}

// NewFileRef validates remotePath as an absolute URL and resolves the
// filename the download stage will use: customFilename when supplied,
// otherwise the last path segment of the URL when it carries a recognizable
// extension. Construction fails when neither yields a filename, since the
// download stage cannot place a file it cannot name.
func NewFileRef(remotePath, customFilename string) (*FileRef, error) {
	remotePath = strings.TrimSpace(remotePath)
	if err := validateAbsoluteURL(remotePath); err != nil {
		return nil, err
	}
	customFilename = strings.TrimSpace(customFilename)
	if customFilename == "" && !hasDerivableFilename(remotePath) {
		return nil, fmt.Errorf("file url %q has no extension and no filename was supplied", remotePath)
	}
	return &FileRef{RemotePath: remotePath, CustomFilename: customFilename}, nil
}

// ValidateAbsoluteURL reports whether raw is an absolute URL with a host.
func ValidateAbsoluteURL(raw string) error {
	return validateAbsoluteURL(raw)
}

// HasFileExtension reports whether the last path segment of an absolute URL
// carries a recognizable file extension. Entity fields use this to decide
// between the downloadable-file form and the plain URL override form.
func HasFileExtension(raw string) bool {
	return hasDerivableFilename(raw)
}

func validateAbsoluteURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("file url must not be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("file url %q: %w", raw, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("file url %q must be absolute", raw)
	}
	return nil
}

func hasDerivableFilename(remotePath string) bool {
	parsed, err := url.Parse(remotePath)
	if err != nil {
		return false
	}
	segment := path.Base(parsed.Path)
	ext := path.Ext(segment)
	return ext != "" && ext != "." && len(ext) <= 8
}

// Filename returns the custom filename when set, otherwise the last path
// segment of the remote URL.
func (f *FileRef) Filename() string {
	if f.CustomFilename != "" {
		return f.CustomFilename
	}
	parsed, err := url.Parse(f.RemotePath)
	if err != nil {
		return ""
	}
	return path.Base(parsed.Path)
}

// SetLocalPath records where the file was (or will be) written, normalized to
// forward slashes. Reassignment goes through the same normalization every
// time; raw field writes are not part of the contract.
func (f *FileRef) SetLocalPath(localPath string) {
	f.LocalPath = strings.ReplaceAll(strings.TrimSpace(localPath), "\\", "/")
}

// Clear empties every field so downstream stages see "no file" rather than a
// reference to a resource that no longer exists.
func (f *FileRef) Clear() {
	f.RemotePath = ""
	f.LocalPath = ""
	f.CustomFilename = ""
}

// IsCleared reports whether the reference no longer points at a file.
func (f *FileRef) IsCleared() bool {
	return f == nil || f.RemotePath == ""
}

// Equal compares local path, custom filename, and remote path as strings.
func (f *FileRef) Equal(other *FileRef) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.LocalPath == other.LocalPath &&
		f.CustomFilename == other.CustomFilename &&
		f.RemotePath == other.RemotePath
}
