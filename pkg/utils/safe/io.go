package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/idswatch/pkg/utils/logging"
)

// maxDrain bounds how much of an unread request body is discarded before
// the connection gives up on reuse.
const maxDrain = 64 << 10

func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", logging.ErrAttr(err))
	}
}

func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", logging.ErrAttr(err))
	}
}

// Drain discards what remains of r and closes it.
func Drain(ctx context.Context, r io.ReadCloser) {
	if r == nil {
		return
	}
	if _, err := io.Copy(io.Discard, io.LimitReader(r, maxDrain)); err != nil {
		logging.From(ctx).Debug("Failed to drain body", logging.ErrAttr(err))
	}
	Close(ctx, r)
}
