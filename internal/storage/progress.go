package storage

import (
	"io"
	"sync/atomic"
)

// ProgressFunc receives the number of bytes sent so far and the expected total.
type ProgressFunc func(sent, total int64)

// progressReader is a wrapper around the io.Reader to get metrics about upload progress.
type progressReader struct {
	r          io.Reader
	sent       atomic.Int64
	total      int64
	onProgress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, onProgress ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		sent := p.sent.Add(int64(n))
		if p.onProgress != nil {
			p.onProgress(sent, p.total)
		}
	}
	return n, err
}

func (p *progressReader) Sent() int64 {
	return p.sent.Load()
}
