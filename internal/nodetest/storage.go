package nodetest

import (
	"sync"
)

// ストレージ種別（ノードのRPCが受け付ける文字列）
const (
	KindPersistent = "PERSISTENT"
	KindLocal      = "LOCAL"
)

// Storage はノードのオフチェーンローカルストレージを模したインメモリKVS
type Storage struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewStorage は新しいストレージを作成する
func NewStorage() *Storage {
	return &Storage{
		data: map[string]map[string][]byte{
			KindPersistent: make(map[string][]byte),
			KindLocal:      make(map[string][]byte),
		},
	}
}

// validKind は種別が有効かどうかを返す
func validKind(kind string) bool {
	return kind == KindPersistent || kind == KindLocal
}

// Get は値を取得する
func (s *Storage) Get(kind string, key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[kind][string(key)]
	if !ok {
		return nil, false
	}

	// コピーを返す
	result := make([]byte, len(value))
	copy(result, value)
	return result, true
}

// Set は値を設定する
func (s *Storage) Set(kind string, key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.data[kind]
	if !ok {
		bucket = make(map[string][]byte)
		s.data[kind] = bucket
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	bucket[string(key)] = stored
}

// Delete は値を削除する
func (s *Storage) Delete(kind string, key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[kind], string(key))
}

// Size は全種別の合計エントリ数を返す
func (s *Storage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, bucket := range s.data {
		n += len(bucket)
	}
	return n
}
