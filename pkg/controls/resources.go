package controls

import (
	"embed"
	"io/fs"
	"net/http"
)

// ResourcePrefix is the URL prefix of the stylesheet and scripts referenced
// by forms and auto complete fields.
const ResourcePrefix = "/click/"

//go:embed assets
var assets embed.FS

// Resources returns the control stylesheet and scripts.
func Resources() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// ResourceHandler serves Resources under ResourcePrefix.
func ResourceHandler() http.Handler {
	return http.StripPrefix(ResourcePrefix, http.FileServer(http.FS(Resources())))
}
