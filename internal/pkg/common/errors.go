package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code        string      `json:"code"`                  // 錯誤代碼
	Message     string      `json:"message"`               // 錯誤信息
	Details     string      `json:"details,omitempty"`     // 詳細信息
	Suggestions interface{} `json:"suggestions,omitempty"` // 查無資料時的相近候選
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 取得原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is 可對預定義錯誤判斷
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrapf 以預定義錯誤為基礎附加細節，保留代碼與狀態碼
func Wrapf(base *CustomError, format string, args ...interface{}) *CustomError {
	return &CustomError{
		Code:    base.Code,
		Message: base.Message,
		Status:  base.Status,
		Err:     fmt.Errorf(format, args...),
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError，不存在時包裝為內部錯誤
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, err)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503

	// 資料與轉換
	ErrCodeUnknownKind     = "UNKNOWN_KIND"
	ErrCodeRecordNotFound  = "RECORD_NOT_FOUND"
	ErrCodeRateNotFound    = "RATE_NOT_FOUND"
	ErrCodeUnsupportedUnit = "UNSUPPORTED_UNIT"
	ErrCodeNoPrice         = "NO_PRICE"
	ErrCodeDocumentMissing = "DOCUMENT_MISSING"

	// 寫入
	ErrCodeFieldNotAllowed = "FIELD_NOT_ALLOWED"
	ErrCodeInvalidValue    = "INVALID_VALUE"
	ErrCodeBackupFailed    = "BACKUP_FAILED"
	ErrCodeWriteFailed     = "WRITE_FAILED"
	ErrCodeVerifyMismatch  = "VERIFY_MISMATCH"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)

	// 資料與轉換錯誤
	ErrUnknownKind     = NewError(ErrCodeUnknownKind, "未知的資料種類", http.StatusBadRequest, nil)
	ErrRecordNotFound  = NewError(ErrCodeRecordNotFound, "找不到資料", http.StatusNotFound, nil)
	ErrRateNotFound    = NewError(ErrCodeRateNotFound, "缺少匯率設定", http.StatusUnprocessableEntity, nil)
	ErrUnsupportedUnit = NewError(ErrCodeUnsupportedUnit, "不支援的單位", http.StatusBadRequest, nil)
	ErrNoPrice         = NewError(ErrCodeNoPrice, "此種類沒有價格", http.StatusUnprocessableEntity, nil)
	ErrDocumentMissing = NewError(ErrCodeDocumentMissing, "資料檔不存在", http.StatusServiceUnavailable, nil)

	// 寫入錯誤
	ErrFieldNotAllowed = NewError(ErrCodeFieldNotAllowed, "欄位不允許修改", http.StatusBadRequest, nil)
	ErrInvalidValue    = NewError(ErrCodeInvalidValue, "無效的欄位值", http.StatusBadRequest, nil)
	ErrBackupFailed    = NewError(ErrCodeBackupFailed, "備份失敗，未寫入任何變更", http.StatusInternalServerError, nil)
	ErrWriteFailed     = NewError(ErrCodeWriteFailed, "寫入失敗", http.StatusInternalServerError, nil)
	ErrVerifyMismatch  = NewError(ErrCodeVerifyMismatch, "寫入後驗證不一致", http.StatusInternalServerError, nil)

	// 基礎設施錯誤
	ErrCacheFull   = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheMiss   = NewError("CACHE_MISS", "緩存未命中", http.StatusNotFound, nil)
	ErrQueueFull   = NewError("QUEUE_FULL", "隊列已滿", http.StatusServiceUnavailable, nil)
	ErrQueueClosed = NewError("QUEUE_CLOSED", "隊列已關閉", http.StatusServiceUnavailable, nil)
	ErrGrocyError  = NewError("GROCY_ERROR", "Grocy 服務錯誤", http.StatusBadGateway, nil)
)
