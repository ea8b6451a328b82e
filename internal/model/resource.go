package model

// ResourceStatus 遠端查詢的生命週期狀態
type ResourceStatus int

const (
	StatusLoading ResourceStatus = iota
	StatusSuccess
	StatusError
)

// Resource 包裝一次非同步查詢的結果
// 每次查詢都會產生新的Resource, 不會重複使用
type Resource[T any] struct {
	Status  ResourceStatus
	Data    T
	Message string
}

func Loading[T any]() Resource[T] {
	return Resource[T]{Status: StatusLoading}
}

func Success[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data}
}

func Failure[T any](message string) Resource[T] {
	return Resource[T]{Status: StatusError, Message: message}
}
