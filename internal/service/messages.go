package service

// 固定的使用者錯誤訊息, 依錯誤類別選擇
const (
	MsgConnectionError = "Couldn't reach server. Check your internet connection."
	MsgNetworkError    = "Network error occurred"
	MsgUnexpectedError = "An unexpected error occurred"
	MsgStorageError    = "A storage error occurred"
)
