package cache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristrettoCache "github.com/eko/gocache/store/ristretto/v4"
)

// NewStore creates the in-process store shared by every cached lookup.
func NewStore() (store.StoreInterface, error) {
	ristr, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return ristrettoCache.NewRistretto(ristr), nil
}

func NewMarshaler(s store.StoreInterface) *marshaler.Marshaler {
	return marshaler.New(cache.New[any](s))
}
