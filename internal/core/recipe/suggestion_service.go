package recipe

import (
	"context"

	"beersmith-bridge/internal/core/feasibility"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// MaxSuggestions 回傳的建議上限
const MaxSuggestions = 10

// StockSource 現有原料來源，例如 Grocy 庫存
type StockSource interface {
	StockNames(ctx context.Context) ([]string, error)
}

// stockKinds 庫存產品可能對應的種類
var stockKinds = []record.Kind{record.KindGrain, record.KindHop, record.KindYeast}

// SuggestionService 釀造建議服務
type SuggestionService struct {
	*Service
	scorer *feasibility.Scorer
}

// NewSuggestionService 創建新的釀造建議服務
func NewSuggestionService(base *Service, scorer *feasibility.Scorer) *SuggestionService {
	return &SuggestionService{Service: base, scorer: scorer}
}

// Suggest 依現有原料評估所有食譜，回傳覆蓋率最高的幾個
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResponse, error) {
	if req.Empty() {
		return nil, common.Wrapf(common.ErrInvalidRequest, "no ingredients given")
	}
	snap := s.snapshot()
	recipes := snap.Recipes()
	found := s.scorer.Suggest(req.Available(), recipes)

	resp := &SuggestResponse{
		Generation:  snap.Generation,
		Evaluated:   len(recipes),
		Suggestions: []RecipeSuggestion{},
	}
	for i, sg := range found {
		if i == MaxSuggestions {
			break
		}
		resp.Suggestions = append(resp.Suggestions, RecipeSuggestion{
			Suggestion:  sg,
			Substitutes: missingHopSubstitutes(sg),
		})
	}

	common.LogInfo("Successfully suggested recipes",
		zap.Int("evaluated", len(recipes)),
		zap.Int("feasible", len(found)),
		zap.Int("returned", len(resp.Suggestions)),
	)
	return resp, nil
}

// missingHopSubstitutes 缺少的酒花可改用的品種
func missingHopSubstitutes(sg feasibility.Suggestion) map[string][]string {
	if sg.Recipe == nil || len(sg.Missing) == 0 {
		return nil
	}
	missing := make(map[string]bool, len(sg.Missing))
	for _, name := range sg.Missing {
		missing[match.Fold(name)] = true
	}
	var out map[string][]string
	for _, h := range sg.Recipe.Hops {
		if !missing[match.Fold(h.Ref.Name)] {
			continue
		}
		subs := match.KnownHopSubstitutes(h.Ref.Name)
		if len(subs) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[h.Ref.Name] = subs
	}
	return out
}

// FromStock 讀取庫存產品名稱，以資料庫原料分類後產生建議
//
// 每個產品取最佳比對的種類，低於門檻的列入 Unmatched。
func (s *SuggestionService) FromStock(ctx context.Context, src StockSource) (*StockSuggestResponse, error) {
	names, err := src.StockNames(ctx)
	if err != nil {
		return nil, err
	}

	snap := s.snapshot()
	pool := snap.Pools(stockKinds...)
	resp := &StockSuggestResponse{Matched: []StockMatch{}, Unmatched: []string{}}
	var req SuggestRequest
	for _, name := range names {
		best, ok := s.matcher.Best(name, pool, "")
		if !ok || best.Confidence < s.matcher.Threshold {
			resp.Unmatched = append(resp.Unmatched, name)
			continue
		}
		resp.Matched = append(resp.Matched, StockMatch{
			Product: name, Kind: best.Kind, MatchedTo: best.Name, Confidence: best.Confidence,
		})
		switch best.Kind {
		case record.KindGrain:
			req.Grains = append(req.Grains, best.Name)
		case record.KindHop:
			req.Hops = append(req.Hops, best.Name)
		case record.KindYeast:
			req.Yeasts = append(req.Yeasts, best.Name)
		}
	}

	common.LogInfo("已分類庫存產品",
		zap.Int("products", len(names)),
		zap.Int("matched", len(resp.Matched)),
		zap.Int("unmatched", len(resp.Unmatched)),
	)

	if req.Empty() {
		resp.SuggestResponse = SuggestResponse{
			Generation:  snap.Generation,
			Evaluated:   len(snap.Recipes()),
			Suggestions: []RecipeSuggestion{},
		}
		return resp, nil
	}
	sr, err := s.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}
	resp.SuggestResponse = *sr
	return resp, nil
}
