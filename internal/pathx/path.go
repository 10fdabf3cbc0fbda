// Package pathx maps between the canonical folder-path form used in the
// metadata store and the prefix form used against the object store.
//
// Canonical form: leading "/", no trailing "/", root is exactly "/".
// Prefix form: no leading "/", single trailing "/", root is "".
package pathx

import "strings"

// Normalize converts an arbitrary user-supplied folder path to canonical form.
//
//	Normalize("foo/") == Normalize("/foo") == Normalize("foo") == "/foo"
//	Normalize("") == Normalize("/") == "/"
func Normalize(path string) string {
	stripped := strings.Trim(path, "/")
	if stripped == "" {
		return "/"
	}
	return "/" + stripped
}

// Prefix converts a folder path to the object-store listing prefix.
// The root folder maps to the empty prefix.
func Prefix(folderPath string) string {
	stripped := strings.Trim(folderPath, "/")
	if stripped == "" {
		return ""
	}
	return stripped + "/"
}

// Join appends a child name to a canonical parent path, producing the
// child's canonical path.
func Join(parent, name string) string {
	parent = Normalize(parent)
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// Key builds the object key for a file name inside a folder.
// Files at the root have bare keys with no directory component.
func Key(folderPath, filename string) string {
	p := Prefix(folderPath)
	if p == "" {
		return filename
	}
	return p + filename
}
