package coapmsg

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// TransferStorage holds in-progress blockwise accumulators between
// datagrams, keyed by token+endpoint (see GetBlockwiseKeyForReceive).
// Entries expire so that abandoned exchanges do not pin their partial
// payloads forever. Ownership of a stored accumulator is exclusive to
// the exchange that created it; concurrent appends to one accumulator
// are a caller error.
type TransferStorage struct {
	storage *cache.Cache
}

func NewTransferStorage() *TransferStorage {
	return NewTransferStorageExpiration(EXCHANGE_LIFETIME)
}

func NewTransferStorageExpiration(expiration time.Duration) *TransferStorage {
	s := new(TransferStorage)
	s.storage = cache.New(expiration, time.Second*1)

	return s
}

func (s *TransferStorage) Set(key string, msg *CoAPMessage) {
	s.storage.SetDefault(key, msg)
}

func (s *TransferStorage) Get(key string) *CoAPMessage {
	v, ok := s.storage.Get(key)
	if ok {
		return v.(*CoAPMessage)
	}
	return nil
}

func (s *TransferStorage) Delete(key string) {
	s.storage.Delete(key)
}

func (s *TransferStorage) ItemCount() int {
	return s.storage.ItemCount()
}
