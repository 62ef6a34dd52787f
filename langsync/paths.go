package langsync

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/paralang/paralang/langfile"
)

// RemoteExt is the extension of files stored on Paratranz.
const RemoteExt = ".json"

// Layout maps between the local source tree, the output tree and Paratranz
// file names.
type Layout struct {
	SourceDir    string // root of the base locale tree, e.g. "Source"
	OutputDir    string // root of the generated tree, e.g. "CNPack"
	BaseLocale   string // base locale file stem, e.g. "en_us"
	TargetLocale string // target locale file stem, e.g. "zh_cn"
}

// BaseFileName returns the base locale file name, e.g. "en_us.lang".
func (l Layout) BaseFileName() string {
	return l.BaseLocale + langfile.Ext
}

// TargetFileName returns the target locale file name, e.g. "zh_cn.lang".
func (l Layout) TargetFileName() string {
	return l.TargetLocale + langfile.Ext
}

// RemotePath returns the Paratranz name for a local base locale file:
// Source/a/b/en_us.lang → a/b/en_us.json.
func (l Layout) RemotePath(localPath string) (string, error) {
	rel, err := filepath.Rel(l.SourceDir, localPath)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", localPath, err)
	}
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%s is outside %s", localPath, l.SourceDir)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, path.Ext(rel)) + RemoteExt, nil
}

// remoteDir validates a Paratranz name and returns its directory as a local
// relative path ("." for top-level files).
func remoteDir(name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	local := filepath.FromSlash(clean)
	if name == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("remote file name %q is not a relative path", name)
	}
	return filepath.Dir(local), nil
}

// TemplatePath returns the local base locale file for a Paratranz name:
// a/b/en_us.json → Source/a/b/en_us.lang.
func (l Layout) TemplatePath(remoteName string) (string, error) {
	dir, err := remoteDir(remoteName)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.SourceDir, dir, l.BaseFileName()), nil
}

// OutputPath returns the target locale file for a Paratranz name:
// a/b/en_us.json → CNPack/a/b/zh_cn.lang.
func (l Layout) OutputPath(remoteName string) (string, error) {
	dir, err := remoteDir(remoteName)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.OutputDir, dir, l.TargetFileName()), nil
}
