package step

import (
	"context"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// CommandOnPath builds a check that is satisfied when an executable
// resolves on the search path.
func CommandOnPath(lp ports.LookPather, name string) CheckFunc {
	return func(_ context.Context) (Status, error) {
		if _, ok := lp.LookPath(name); ok {
			return StatusSatisfied, nil
		}
		return StatusNeedsApply, nil
	}
}

// PathExists builds a check that is satisfied when a file or directory
// exists at the given location. ~ is expanded.
func PathExists(fs ports.FileSystem, path string) CheckFunc {
	return func(_ context.Context) (Status, error) {
		if fs.Exists(ports.ExpandPath(path)) {
			return StatusSatisfied, nil
		}
		return StatusNeedsApply, nil
	}
}

// AppBundle builds a check that is satisfied when an application
// bundle is installed under /Applications.
func AppBundle(fs ports.FileSystem, appName string) CheckFunc {
	return PathExists(fs, "/Applications/"+appName+".app")
}
