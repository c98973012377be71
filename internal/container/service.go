// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"context"
	"fmt"
)

// GROBIDName is the container name used for the managed GROBID service.
const GROBIDName = "litreview-grobid"

// EnsureService starts the named service container unless it is already
// running, pulling the image first when it is missing locally. It reports
// whether a new container was started.
func EnsureService(ctx context.Context, rt Runtime, name, image string, hostPort int) (bool, error) {
	running, err := rt.Running(ctx, name)
	if err != nil {
		return false, err
	}
	if running {
		return false, nil
	}

	if err := rt.ImageExists(ctx, image); err != nil {
		if err := rt.Pull(ctx, image); err != nil {
			return false, fmt.Errorf("image %s unavailable: %w", image, err)
		}
	}

	if err := rt.Start(ctx, name, image, hostPort); err != nil {
		return false, err
	}
	return true, nil
}
