// Package observable 提供可訂閱的狀態容器
// 訂閱者訂閱時會立即收到當前值, 之後每次Set都會同步收到新值
package observable

import (
	"sync"
)

type Observable[T any] struct {
	mu        sync.Mutex
	value     T
	listeners map[int]func(T)
	nextID    int
}

func New[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set 更新值並同步通知所有訂閱者
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	o.value = value
	listeners := make([]func(T), 0, len(o.listeners))
	for _, fn := range o.listeners {
		listeners = append(listeners, fn)
	}
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// Update 原子性的讀取修改寫入
// LoadProducts與LoadCategories寫入不同欄位時使用, 避免彼此覆蓋
func (o *Observable[T]) Update(fn func(T) T) {
	o.mu.Lock()
	o.value = fn(o.value)
	value := o.value
	listeners := make([]func(T), 0, len(o.listeners))
	for _, l := range o.listeners {
		listeners = append(listeners, l)
	}
	o.mu.Unlock()

	for _, l := range listeners {
		l(value)
	}
}

// Subscribe 註冊訂閱者, 立即以當前值呼叫一次, 回傳取消訂閱函式
func (o *Observable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	current := o.value
	o.mu.Unlock()

	fn(current)

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
	}
}

// SubscriberCount 當前訂閱者數量
func (o *Observable[T]) SubscriberCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}
