// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import "strings"

// Namespace identifies one of the two dynamic directories. An entry's
// namespace is fixed when it is created.
type Namespace int

const (
	Notes Namespace = iota
	Secure
)

// Namespaces lists the dynamic directories in root listing order.
var Namespaces = []Namespace{Notes, Secure}

// Dir returns the absolute directory path, e.g. "/notes".
func (n Namespace) Dir() string {
	return "/" + n.String()
}

func (n Namespace) String() string {
	switch n {
	case Notes:
		return "notes"
	case Secure:
		return "secure"
	default:
		return "unknown"
	}
}

// EntryPath derives the full path of an entry named name in n.
func (n Namespace) EntryPath(name string) string {
	return n.Dir() + "/" + name
}

// Kind is the classification of a path.
type Kind int

const (
	KindUnknown Kind = iota
	KindRoot
	KindStaticFile
	KindDynamicDir
	KindDynamicEntry
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindStaticFile:
		return "static-file"
	case KindDynamicDir:
		return "dynamic-dir"
	case KindDynamicEntry:
		return "dynamic-entry"
	default:
		return "unknown"
	}
}

// IsDir reports whether paths of this kind are directories.
func (k Kind) IsDir() bool {
	return k == KindRoot || k == KindDynamicDir
}

// Resolution is the result of classifying a path.
type Resolution struct {
	Kind Kind

	// Namespace is set for KindDynamicDir and KindDynamicEntry.
	Namespace Namespace

	// Name is the entry name for KindDynamicEntry, or the static file
	// name (without the leading slash) for KindStaticFile.
	Name string
}

// Classify resolves a path by shape alone. A KindDynamicEntry result
// says the path is a legal entry location; whether an entry is stored
// there is the Store's business.
func Classify(path string) Resolution {
	if path == "/" {
		return Resolution{Kind: KindRoot}
	}
	if isStaticPath(path) {
		return Resolution{Kind: KindStaticFile, Name: path[1:]}
	}
	for _, namespace := range Namespaces {
		dir := namespace.Dir()
		if path == dir {
			return Resolution{Kind: KindDynamicDir, Namespace: namespace}
		}
		name, found := strings.CutPrefix(path, dir+"/")
		if !found {
			continue
		}
		if name == "" || strings.Contains(name, "/") {
			return Resolution{Kind: KindUnknown}
		}
		return Resolution{Kind: KindDynamicEntry, Namespace: namespace, Name: name}
	}
	return Resolution{Kind: KindUnknown}
}
