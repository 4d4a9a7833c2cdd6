package cache

import "github.com/sjolsen/mipssim/emu"

// Observer adapts a Cache to the emu.Observer capability set, embedding
// emu.BaseObserver so it only needs to implement the two hooks it cares
// about.
type Observer struct {
	emu.BaseObserver
	Cache *Cache
}

// NewObserver creates an Observer wrapping a fresh Cache.
func NewObserver() *Observer {
	return &Observer{Cache: New()}
}

func (o *Observer) OnLoad(addr uint32, count uint64)  { o.Cache.Load(addr, count) }
func (o *Observer) OnStore(addr uint32, count uint64) { o.Cache.Store(addr, count) }
