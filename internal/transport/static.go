package transport

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:web
var embeddedWeb embed.FS

// Assets returns a handler serving the embedded browser UI, falling
// back to index.html for any path that isn't a real file -- the SPA
// fallback is an external, out-of-core concern.
func Assets() (http.Handler, error) {
	sub, err := fs.Sub(embeddedWeb, "web")
	if err != nil {
		return nil, err
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := fs.Stat(sub, trimLeadingSlash(r.URL.Path)); err != nil {
			r.URL.Path = "/"
		}
		fileServer.ServeHTTP(w, r)
	}), nil
}

func trimLeadingSlash(p string) string {
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	if p == "" {
		return "."
	}
	return p
}
