package engine

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
)

// keyLockShards is the size of the sharded lock set.  Unrelated seats
// hash to different shards, so operations on different keys do not
// block each other; contenders for the same (show, seat) key always
// hash to the same shard and serialize.
const keyLockShards = 256

// keyLocks is a sharded set of in-process mutexes keyed by
// (show_id, seat_id) hash.  It serializes the engine's check-and-act
// sequences within one process; the store's row-level locking covers
// concurrent instances of the service.
type keyLocks struct {
	shards [keyLockShards]sync.Mutex
}

// lock acquires the shard mutex for the key and returns its unlock
// function.
func (k *keyLocks) lock(showID, seatID uint64) func() {
	m := &k.shards[shardIndex(showID, seatID)]
	m.Lock()
	return m.Unlock
}

func shardIndex(showID, seatID uint64) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], showID)
	binary.BigEndian.PutUint64(buf[8:], seatID)
	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64() % keyLockShards
}
