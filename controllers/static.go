package controllers

import (
	"net/http"
	"os"
	"path"
)

// dashboardFS serves files and directories that carry an index.html.
// Other directories are reported missing so they are never listed.
type dashboardFS struct {
	fs http.FileSystem
}

func (d dashboardFS) Open(name string) (http.File, error) {
	f, err := d.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.IsDir() {
		index, err := d.fs.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, os.ErrNotExist
		}
		index.Close()
	}

	return f, nil
}

// StaticFiles serves the dashboard pages under dir
func StaticFiles(dir string) http.Handler {
	return http.FileServer(dashboardFS{fs: http.Dir(dir)})
}
