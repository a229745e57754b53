package scene

import "context"

// Pending is the result of an asynchronous icon load. It resolves exactly
// once, after the icon has been inserted or the load has failed.
type Pending struct {
	done chan struct{}
	icon *Icon
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(icon *Icon, err error) {
	p.icon, p.err = icon, err
	close(p.done)
}

// Done is closed when the load completes.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the load completes or ctx is done. The returned icon is
// a copy of the inserted one.
func (p *Pending) Wait(ctx context.Context) (*Icon, error) {
	select {
	case <-p.done:
		return p.icon, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
