package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jroosing/stubdns/internal/pool"
)

func TestPoolConstructsOnDemand(t *testing.T) {
	constructed := 0
	p := pool.New(func() *int {
		constructed++
		return new(int)
	})

	v := p.Get()
	assert.NotNil(t, v)
	assert.Equal(t, 1, constructed)
}

func TestPoolReusesItems(t *testing.T) {
	p := pool.New(func() *int { return new(int) })

	a := p.Get()
	*a = 42
	p.Put(a)

	// sync.Pool gives no reuse guarantee, but the returned item must be
	// usable either way.
	b := p.Get()
	assert.NotNil(t, b)
}

func TestNewBytesSize(t *testing.T) {
	p := pool.NewBytes(4096)
	buf := p.Get()
	assert.Len(t, buf, 4096)
	p.Put(buf)
}
