// Package scaffold provides the embedded templates the rnfi CLI uses to
// create new content.
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// ArticleRoot is the template directory of a new article.
const ArticleRoot = "templates/article"
