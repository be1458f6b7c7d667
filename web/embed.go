// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the HTML templates and static page content so the
// binary ships self-contained.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

//go:embed content
var contentFS embed.FS

// TemplatesFS returns the template tree rooted at templates/.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// ContentFS returns the static page content rooted at content/.
func ContentFS() fs.FS {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		panic(err)
	}
	return sub
}
