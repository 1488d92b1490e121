package sink

import (
	"context"

	"github.com/matzehuels/imagesheet/pkg/layout"
)

// PageRenderer draws placements one at a time. Draw is called in input
// order with non-decreasing page numbers; Close finalizes the output and
// is called exactly once.
type PageRenderer interface {
	Draw(ctx context.Context, p layout.Placement) error
	Close() error
}

// RenderAll draws every placement of l on r and closes r. Close runs even
// when drawing fails; the first error wins.
func RenderAll(ctx context.Context, l layout.Layout, r PageRenderer) (err error) {
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	for _, p := range l.Placements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Draw(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
