// Package memory provides an ephemeral store.Store holding everything in
// process memory, for tests and clients that do not need verification work
// to survive a restart.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tendermint/lightstore/store"
	"github.com/tendermint/lightstore/types"
)

type memStore struct {
	mtx    sync.RWMutex
	blocks map[store.Status]map[int64]types.LightBlock
}

// New returns an empty in-memory Store.
func New() store.Store {
	blocks := make(map[store.Status]map[int64]types.LightBlock, len(store.Statuses()))
	for _, status := range store.Statuses() {
		blocks[status] = make(map[int64]types.LightBlock)
	}
	return &memStore{blocks: blocks}
}

func (s *memStore) table(status store.Status) (map[int64]types.LightBlock, error) {
	t, ok := s.blocks[status]
	if !ok {
		return nil, fmt.Errorf("unknown status: %v", status)
	}
	return t, nil
}

func (s *memStore) Get(height int64, status store.Status) (*types.LightBlock, error) {
	if height <= 0 {
		return nil, fmt.Errorf("non-positive height: %d", height)
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	lb, ok := t[height]
	if !ok {
		return nil, nil
	}
	return &lb, nil
}

func (s *memStore) Insert(lb *types.LightBlock, status store.Status) error {
	height, err := blockHeight(lb)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, err := s.table(status)
	if err != nil {
		return err
	}

	t[height] = *lb
	return nil
}

func (s *memStore) Update(lb *types.LightBlock, status store.Status) error {
	height, err := blockHeight(lb)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	target, err := s.table(status)
	if err != nil {
		return err
	}

	for other, t := range s.blocks {
		if other != status {
			delete(t, height)
		}
	}
	target[height] = *lb

	return nil
}

func (s *memStore) Remove(height int64, status store.Status) error {
	if height <= 0 {
		return fmt.Errorf("non-positive height: %d", height)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, err := s.table(status)
	if err != nil {
		return err
	}

	delete(t, height)
	return nil
}

func (s *memStore) Latest(status store.Status) (*types.LightBlock, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	var latest *types.LightBlock
	for _, lb := range t {
		lb := lb
		if latest == nil || lb.Height > latest.Height {
			latest = &lb
		}
	}
	return latest, nil
}

func (s *memStore) Lowest(status store.Status) (*types.LightBlock, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	var lowest *types.LightBlock
	for _, lb := range t {
		lb := lb
		if lowest == nil || lb.Height < lowest.Height {
			lowest = &lb
		}
	}
	return lowest, nil
}

func (s *memStore) Size(status store.Status) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, err := s.table(status)
	if err != nil {
		return 0, err
	}

	return len(t), nil
}

// All returns a point-in-time snapshot in ascending height order, a
// stronger isolation guarantee than the contract requires.
func (s *memStore) All(status store.Status) (store.Iterator, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	blocks := make([]types.LightBlock, 0, len(t))
	for _, lb := range t {
		blocks = append(blocks, lb)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Height < blocks[j].Height })

	return &iterator{blocks: blocks, idx: -1}, nil
}

type iterator struct {
	blocks []types.LightBlock
	idx    int
}

func (it *iterator) Next() bool {
	if it.idx+1 >= len(it.blocks) {
		return false
	}
	it.idx++
	return true
}

// Block returns nil until the first call to Next succeeds.
func (it *iterator) Block() *types.LightBlock {
	if it.idx < 0 {
		return nil
	}
	lb := it.blocks[it.idx]
	return &lb
}

func (it *iterator) Err() error { return nil }

func (it *iterator) Close() error { return nil }

func blockHeight(lb *types.LightBlock) (int64, error) {
	if lb == nil || lb.SignedHeader == nil || lb.SignedHeader.Header == nil {
		return 0, errors.New("nil light block")
	}
	if lb.Height <= 0 {
		return 0, fmt.Errorf("non-positive height: %d", lb.Height)
	}
	return lb.Height, nil
}
