package engine

import (
	"image"
	"sync"
)

// bufferPool recycles column buffers of one size across retiles, so a
// window being dragged wider does not reallocate every column.
type bufferPool struct {
	pool sync.Pool
	rect image.Rectangle
}

func newBufferPool(width, height int) *bufferPool {
	rect := image.Rect(0, 0, width, height)
	return &bufferPool{
		rect: rect,
		pool: sync.Pool{
			New: func() interface{} {
				return image.NewRGBA(rect)
			},
		},
	}
}

func (p *bufferPool) fits(width, height int) bool {
	return p.rect.Dx() == width && p.rect.Dy() == height
}

func (p *bufferPool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

func (p *bufferPool) Put(b *image.RGBA) {
	if b != nil && b.Rect == p.rect {
		p.pool.Put(b)
	}
}
