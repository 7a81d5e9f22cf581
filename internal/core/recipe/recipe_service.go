package recipe

import (
	"fmt"
	"strings"

	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// RecipeService 食譜查詢與驗證服務
// --------------------------------------------------
type RecipeService struct {
	*Service
}

// NewRecipeService 創建新的食譜服務
func NewRecipeService(base *Service) *RecipeService {
	return &RecipeService{Service: base}
}

// List 食譜摘要，依資料夾與名稱排序
func (s *RecipeService) List(f Filter) []RecipeSummary {
	needle := match.Fold(f.Search)
	out := []RecipeSummary{}
	for _, r := range s.snapshot().Recipes() {
		if !keep(r, f) || !strings.Contains(match.Fold(r.Name), needle) {
			continue
		}
		out = append(out, RecipeSummary{
			ID: r.ID, Name: r.Name, Folder: r.Folder, Source: r.Source,
			Style: r.Style.Name, OG: r.OG, IBU: r.IBU, ABV: r.ABV,
		})
	}
	return out
}

// Get 依識別碼、名稱的順序取得食譜；都找不到時回傳相近名稱
func (s *RecipeService) Get(key string) (*record.Recipe, []match.Result, error) {
	r, suggestions, err := s.snapshot().Lookup(record.KindRecipe, key, s.matcher)
	if err != nil {
		return nil, suggestions, err
	}
	return r.(*record.Recipe), nil, nil
}

// Detail 食譜與所有原料參照的解析結果
func (s *RecipeService) Detail(key string) (*catalog.ResolvedRecipe, []match.Result, error) {
	snap := s.snapshot()
	r, suggestions, err := snap.Lookup(record.KindRecipe, key, s.matcher)
	if err != nil {
		return nil, suggestions, err
	}
	resolved := catalog.ResolveRecipe(snap, r.(*record.Recipe))
	return &resolved, nil, nil
}

// Validate 比較食譜的統計數值與風格範圍
//
// 風格優先取資料庫中的同名風格，其次用食譜內嵌的副本。統計數值採用食譜記載的值。
// FG 低於下限只列為警告，其餘超出範圍列為問題。
func (s *RecipeService) Validate(key string) (*ValidationReport, []match.Result, error) {
	snap := s.snapshot()
	rec, suggestions, err := snap.Lookup(record.KindRecipe, key, s.matcher)
	if err != nil {
		return nil, suggestions, err
	}
	r := rec.(*record.Recipe)

	style, source := styleFor(snap, r)
	if style == nil {
		return nil, nil, common.Wrapf(common.ErrNotFound, "recipe %q has no style", r.Name)
	}

	report := &ValidationReport{
		Recipe:      r.Name,
		Style:       style.Name,
		StyleSource: source,
		Checks:      []Check{},
		Issues:      []string{},
		Warnings:    []string{},
		Passed:      []string{},
	}

	metrics := []struct {
		name      string
		value     float64
		rng       record.Range
		lowIsSoft bool
		format    string
	}{
		{"OG", r.OG, style.OG, false, "%.3f"},
		{"FG", r.FG, style.FG, true, "%.3f"},
		{"ABV", r.ABV, style.ABV, false, "%.1f%%"},
		{"IBU", r.IBU, style.IBU, false, "%.0f"},
		{"Color", r.Color, style.Color, false, "%.1f SRM"},
	}
	for _, m := range metrics {
		c := Check{Metric: m.name, Value: m.value, Range: m.rng}
		show := func(v float64) string { return fmt.Sprintf(m.format, v) }
		switch {
		case !m.rng.Defined():
			c.Status = CheckSkipped
			c.Message = m.name + " range not set in style"
		case m.value < m.rng.Min:
			c.Message = fmt.Sprintf("%s %s is below style minimum %s", m.name, show(m.value), show(m.rng.Min))
			if m.lowIsSoft {
				c.Status = CheckWarning
				report.Warnings = append(report.Warnings, c.Message)
			} else {
				c.Status = CheckIssue
				report.Issues = append(report.Issues, c.Message)
			}
		case m.value > m.rng.Max:
			c.Status = CheckIssue
			c.Message = fmt.Sprintf("%s %s is above style maximum %s", m.name, show(m.value), show(m.rng.Max))
			report.Issues = append(report.Issues, c.Message)
		default:
			c.Status = CheckPass
			c.Message = fmt.Sprintf("%s %s within %s-%s", m.name, show(m.value), show(m.rng.Min), show(m.rng.Max))
			report.Passed = append(report.Passed, c.Message)
		}
		if m.rng.Inverted {
			report.Warnings = append(report.Warnings, m.name+" range in style has minimum above maximum")
		}
		report.Checks = append(report.Checks, c)
	}
	report.InStyle = len(report.Issues) == 0

	common.LogInfo("Successfully validated recipe",
		zap.String("recipe", r.Name),
		zap.String("style", style.Name),
		zap.Int("issues", len(report.Issues)),
		zap.Int("warnings", len(report.Warnings)),
	)
	return report, nil, nil
}

// styleFor 解析食譜的風格：資料庫優先，其次內嵌副本
func styleFor(snap *catalog.Snapshot, r *record.Recipe) (*record.Style, string) {
	if r.Style.Name != "" {
		if res := catalog.Resolve[record.Style](snap, r.Style); res.OK {
			return res.Record, "library"
		}
	}
	if r.StyleCopy != nil {
		return r.StyleCopy, "embedded"
	}
	return nil, ""
}
