package convert

import (
	"path"
	"strings"
)

// DeclarationExt is the extension of generated declaration files.
const DeclarationExt = ".d.ts"

// DefaultStagedDirs are the directories dependencies are installed into
// next to the package being analyzed.
var DefaultStagedDirs = []string{"bower_components/", "node_modules/"}

// DeclarationFilename maps a source URL to its declaration file, e.g.
// "src/foo.html" to "src/foo.d.ts".
func DeclarationFilename(url string) string {
	url = path.Clean(strings.TrimPrefix(url, "./"))
	return strings.TrimSuffix(url, path.Ext(url)) + DeclarationExt
}

// unstage rewrites a root-relative path inside a staged dependency
// directory to point at the sibling package, e.g.
// "bower_components/polymer/polymer.d.ts" becomes "../polymer/polymer.d.ts".
func unstage(p string, stagedDirs []string) string {
	for _, dir := range stagedDirs {
		if dir == "" {
			continue
		}
		if !strings.HasSuffix(dir, "/") {
			dir += "/"
		}
		if strings.HasPrefix(p, dir) {
			return "../" + strings.TrimPrefix(p, dir)
		}
	}
	return p
}

// splitReference splits "A.B.C" into the namespace path ["A", "B"] and the
// short name "C".
func splitReference(name string) ([]string, string) {
	parts := strings.Split(name, ".")
	return parts[:len(parts)-1], parts[len(parts)-1]
}
