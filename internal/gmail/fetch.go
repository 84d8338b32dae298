package gmail

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchAll fetches every referenced message concurrently. Results come back
// in the same order as refs. The first error cancels outstanding fetches.
func (c *Client) FetchAll(ctx context.Context, refs []*MessageRef, mode AttachmentMode) ([]*Message, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	msgs := make([]*Message, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, ref := range refs {
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			msg, err := c.GetMessage(ctx, ref.ID, mode)
			if err != nil {
				return err
			}
			msgs[i] = msg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return msgs, nil
}
