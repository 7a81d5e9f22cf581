package recipe

import (
	"context"
	"strconv"
	"strings"

	"beersmith-bridge/internal/core/cache"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// IngredientService 原料查詢服務
type IngredientService struct {
	*Service
}

// NewIngredientService 創建新的原料查詢服務
func NewIngredientService(base *Service) *IngredientService {
	return &IngredientService{Service: base}
}

// List 某種類的資料，依篩選條件過濾
func (s *IngredientService) List(kind record.Kind, f Filter) []record.Record {
	snap := s.snapshot()
	recs := snap.List(kind)
	if f.Search != "" {
		recs = snap.Search(f.Search, kind)
	}

	out := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		if keep(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// keep 篩選條件是否成立；不適用於該種類的條件忽略
func keep(r record.Record, f Filter) bool {
	switch v := r.(type) {
	case *record.Hop:
		if f.Type != "" {
			t, ok := record.ParseHopType(f.Type)
			return ok && v.Type == t
		}
	case *record.Grain:
		if f.Type != "" {
			t, ok := record.ParseGrainType(f.Type)
			return ok && v.Type == t
		}
	case *record.Yeast:
		if f.Lab != "" {
			return strings.Contains(match.Fold(v.Lab), match.Fold(f.Lab))
		}
	case *record.Style:
		if f.Category != "" {
			return strings.Contains(match.Fold(v.Category), match.Fold(f.Category))
		}
	case *record.Recipe:
		if f.Folder != "" {
			return folderMatches(v.Folder, f.Folder)
		}
	}
	return true
}

// folderMatches 資料夾比對不分大小寫，可省略前後斜線；子資料夾一併列入
func folderMatches(folder, want string) bool {
	trim := func(s string) string { return strings.Trim(match.Fold(s), "/ ") }
	f, w := trim(folder), trim(want)
	return f == w || strings.HasPrefix(f, w+"/")
}

// Get 取得單筆資料；找不到時回傳相近名稱
func (s *IngredientService) Get(kind record.Kind, key string) (record.Record, []match.Result, error) {
	return s.snapshot().Lookup(kind, key, s.matcher)
}

// Search 跨種類搜尋名稱
func (s *IngredientService) Search(q string, kinds []record.Kind) []record.Record {
	return s.snapshot().Search(q, kinds...)
}

// Match 批次比對名稱；相同查詢在同一快照世代內使用快取
func (s *IngredientService) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	kinds, err := parseKinds(req.Kinds, record.IngredientKinds)
	if err != nil {
		return nil, err
	}
	threshold := req.Threshold
	if threshold < 0 || threshold > 1 {
		return nil, common.Wrapf(common.ErrInvalidRequest, "threshold %v outside 0..1", threshold)
	}
	if threshold == 0 {
		threshold = s.matcher.Threshold
	}

	snap := s.snapshot()
	resp := &MatchResponse{Generation: snap.Generation, Threshold: threshold}
	pool := snap.Pools(kinds...)
	kindKey := kindsKey(kinds)
	thresholdKey := strconv.FormatFloat(threshold, 'f', -1, 64)

	hits := 0
	for _, item := range req.Items {
		key := cache.Key(snap.Generation, "match", kindKey, thresholdKey, match.Fold(item))
		var matches []match.Result
		if s.getFromCache(ctx, key, &matches) {
			hits++
		} else {
			matches = s.matcher.MatchThreshold(item, pool, "", threshold)
			s.setToCache(ctx, key, matches)
		}
		if matches == nil {
			matches = []match.Result{}
		}
		mi := MatchItem{Query: item, Matches: matches}
		if len(matches) > 0 {
			best := matches[0]
			mi.Best = &best
		}
		resp.Results = append(resp.Results, mi)
	}

	common.LogInfo("Successfully matched names",
		zap.Int("items", len(req.Items)),
		zap.Int("cache_hits", hits),
		zap.Uint64("generation", snap.Generation),
	)
	return resp, nil
}

// Substitutes 酒花替代建議
func (s *IngredientService) Substitutes(name string) match.Substitutes {
	return s.matcher.SuggestSubstitutes(name, s.snapshot().Pool(record.KindHop))
}

// Water 水質資料與風味傾向
func (s *IngredientService) Water(key string) (*WaterProfile, []match.Result, error) {
	r, suggestions, err := s.Get(record.KindWater, key)
	if err != nil {
		return nil, suggestions, err
	}
	w := r.(*record.Water)
	character, ratio := WaterCharacter(w)
	return &WaterProfile{Water: w, Ratio: ratio, Character: character}, nil, nil
}

// parseKinds 解析種類清單，空清單採用預設
func parseKinds(names []string, def []record.Kind) ([]record.Kind, error) {
	if len(names) == 0 {
		return def, nil
	}
	out := make([]record.Kind, 0, len(names))
	seen := make(map[record.Kind]bool, len(names))
	for _, n := range names {
		k, err := record.ParseKind(n)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

// ParseKinds 解析逗號分隔的種類清單
func ParseKinds(csv string) ([]record.Kind, error) {
	return parseKinds(common.SplitList(csv), nil)
}

func kindsKey(kinds []record.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
