package compose

import (
	"github.com/couchdeveloper/Oak-sub003/machine"
)

// Proxy is the external handle of a parallel composition. Send routes each
// tagged event to the sub-proxy it is tagged for; Terminate reaches both.
type Proxy[EA, EB any] struct {
	first  *machine.Proxy[EA]
	second *machine.Proxy[EB]
}

var _ machine.Input[Tagged[int, string]] = (*Proxy[int, string])(nil)

// NewProxy combines the two constituent proxies into one composite handle.
// The sub-proxies stay usable directly, e.g. for side-specific senders.
func NewProxy[EA, EB any](first *machine.Proxy[EA], second *machine.Proxy[EB]) *Proxy[EA, EB] {
	return &Proxy[EA, EB]{first: first, second: second}
}

func (p *Proxy[EA, EB]) Send(ev Tagged[EA, EB]) error {
	if a, ok := ev.First(); ok {
		return p.first.Send(a)
	}
	b, _ := ev.Second()
	return p.second.Send(b)
}

// Terminate forcibly ends both constituent runs. Idempotent.
func (p *Proxy[EA, EB]) Terminate(reason error) {
	p.first.Terminate(reason)
	p.second.Terminate(reason)
}

// First exposes the first constituent proxy.
func (p *Proxy[EA, EB]) First() *machine.Proxy[EA] { return p.first }

// Second exposes the second constituent proxy.
func (p *Proxy[EA, EB]) Second() *machine.Proxy[EB] { return p.second }
