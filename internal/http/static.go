package http

import (
	"bytes"
	"embed"
	"io/fs"
	stdhttp "net/http"
	"time"
)

//go:embed static
var embeddedStatic embed.FS

// staticFiles holds the stylesheet, editor script and favicon at the root.
var staticFiles = mustSubFS(embeddedStatic, "static")

const staticCacheControl = "public, max-age=86400"

func mustSubFS(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// staticHandler serves /static/* from the embedded assets. Directory listings are
// not exposed.
func staticHandler() stdhttp.Handler {
	files := stdhttp.FileServerFS(staticFiles)
	return stdhttp.StripPrefix("/static", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			stdhttp.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", staticCacheControl)
		files.ServeHTTP(w, r)
	}))
}

func faviconHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	favicon, err := fs.ReadFile(staticFiles, "favicon.svg")
	if err != nil || len(favicon) == 0 {
		w.WriteHeader(stdhttp.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", staticCacheControl)
	stdhttp.ServeContent(w, r, "favicon.svg", time.Time{}, bytes.NewReader(favicon))
}
