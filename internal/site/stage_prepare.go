package site

import "context"

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	return bs.Generator.beginStaging()
}
