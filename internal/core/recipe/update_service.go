package recipe

import (
	"context"

	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/mutation"
	"beersmith-bridge/internal/core/record"
)

// Submitter 將寫入命令排入隊列並等待結果
type Submitter interface {
	Submit(ctx context.Context, u mutation.Update) (*mutation.Result, error)
}

// UpdateService 欄位修改服務；寫入一律經由隊列依序執行
type UpdateService struct {
	*Service
	queue Submitter
}

// NewUpdateService 創建新的欄位修改服務
func NewUpdateService(base *Service, queue Submitter) *UpdateService {
	return &UpdateService{Service: base, queue: queue}
}

// Update 以識別碼或名稱找到資料後修改欄位；找不到時回傳相近名稱，不做任何寫入
func (s *UpdateService) Update(ctx context.Context, kind record.Kind, key string, changes mutation.ChangeSet, reason string) (*mutation.Result, []match.Result, error) {
	r, suggestions, err := s.snapshot().Lookup(kind, key, s.matcher)
	if err != nil {
		return nil, suggestions, err
	}
	res, err := s.queue.Submit(ctx, mutation.Update{
		Kind:    kind,
		Name:    r.Meta().Name,
		Changes: changes,
		Reason:  reason,
	})
	return res, nil, err
}
