package cmd

import (
	"os"

	"github.com/go-click/click/pkg/config"
)

// resolveProject resolves the configuration of --dir, else the enclosing Go
// module, else the working directory.
func resolveProject() (*config.Resolved, error) {
	dir := projectDir
	if dir == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			if root, err = os.Getwd(); err != nil {
				return nil, err
			}
		}
		dir = root
	}
	return config.Resolve(dir)
}
