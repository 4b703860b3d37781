// Package linkedset 提供保持插入顺序的唯一集合.
package linkedset

import "github.com/elliotchance/orderedmap/v3"

// LinkedSet 按键去重、按插入顺序遍历的集合.
//
// 特性:
//   - Add/Remove/Contains 操作时间复杂度 O(1)
//   - 遍历顺序与首次插入顺序一致
//   - 重复添加同一键不改变其位置
//
// 非并发安全，调用方负责加锁.
//
// 示例:
//
//	ls := linkedset.New[string, int]()
//	ls.Add("a", 1)
//	ls.Add("b", 2)
//	ls.Add("a", 3) // 已存在，忽略
//	ls.Values()    // [1, 2]
type LinkedSet[K comparable, V any] struct {
	m *orderedmap.OrderedMap[K, V]
}

// New 创建 LinkedSet.
func New[K comparable, V any]() *LinkedSet[K, V] {
	return &LinkedSet[K, V]{m: orderedmap.NewOrderedMap[K, V]()}
}

// Add 添加元素，键已存在时忽略并返回 false.
func (s *LinkedSet[K, V]) Add(key K, value V) bool {
	if s.m.Has(key) {
		return false
	}
	s.m.Set(key, value)
	return true
}

// Remove 移除元素，键不存在时返回 false.
func (s *LinkedSet[K, V]) Remove(key K) bool {
	return s.m.Delete(key)
}

// Contains 判断键是否存在.
func (s *LinkedSet[K, V]) Contains(key K) bool {
	return s.m.Has(key)
}

// Get 返回键对应的元素.
func (s *LinkedSet[K, V]) Get(key K) (V, bool) {
	return s.m.Get(key)
}

// Len 返回元素数量.
func (s *LinkedSet[K, V]) Len() int {
	return s.m.Len()
}

// IsEmpty 判断是否为空.
func (s *LinkedSet[K, V]) IsEmpty() bool {
	return s.m.Len() == 0
}

// Clear 清空所有元素.
func (s *LinkedSet[K, V]) Clear() {
	s.m = orderedmap.NewOrderedMap[K, V]()
}

// Values 按插入顺序返回元素快照，后续修改不影响返回的切片.
func (s *LinkedSet[K, V]) Values() []V {
	result := make([]V, 0, s.m.Len())
	for el := s.m.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value)
	}
	return result
}

// Keys 按插入顺序返回键快照.
func (s *LinkedSet[K, V]) Keys() []K {
	result := make([]K, 0, s.m.Len())
	for el := s.m.Front(); el != nil; el = el.Next() {
		result = append(result, el.Key)
	}
	return result
}

// Range 按插入顺序遍历.
// fn 返回 false 时停止遍历.
func (s *LinkedSet[K, V]) Range(fn func(key K, value V) bool) {
	for el := s.m.Front(); el != nil; el = el.Next() {
		if !fn(el.Key, el.Value) {
			return
		}
	}
}
