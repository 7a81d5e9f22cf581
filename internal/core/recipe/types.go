package recipe

import (
	"beersmith-bridge/internal/core/feasibility"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
)

// Filter 清單篩選條件，空值表示不篩選
type Filter struct {
	Search   string `form:"search"`
	Type     string `form:"type"`     // 酒花與發酵物
	Lab      string `form:"lab"`      // 酵母
	Category string `form:"category"` // 風格
	Folder   string `form:"folder"`   // 食譜
}

// MatchRequest 批次比對請求
type MatchRequest struct {
	Items     []string `json:"items" binding:"required,min=1"`
	Kinds     []string `json:"kinds"`
	Threshold float64  `json:"threshold"`
}

// MatchItem 單一名稱的比對結果
type MatchItem struct {
	Query   string         `json:"query"`
	Matches []match.Result `json:"matches"`
	Best    *match.Result  `json:"best,omitempty"`
}

// MatchResponse 批次比對結果，順序與請求相同
type MatchResponse struct {
	Generation uint64      `json:"generation"`
	Threshold  float64     `json:"threshold"`
	Results    []MatchItem `json:"results"`
}

// RecipeSummary 食譜清單項目
type RecipeSummary struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Folder string  `json:"folder"`
	Source string  `json:"source"`
	Style  string  `json:"style,omitempty"`
	OG     float64 `json:"og"`
	IBU    float64 `json:"ibu"`
	ABV    float64 `json:"abv"`
}

// CheckStatus 單項檢查結果
type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckIssue   CheckStatus = "issue"
	CheckWarning CheckStatus = "warning"
	CheckSkipped CheckStatus = "skipped"
)

// Check 一項統計數值與風格範圍的比較
type Check struct {
	Metric  string       `json:"metric"`
	Value   float64      `json:"value"`
	Range   record.Range `json:"range"`
	Status  CheckStatus  `json:"status"`
	Message string       `json:"message,omitempty"`
}

// ValidationReport 食譜與風格的比較結果
type ValidationReport struct {
	Recipe      string   `json:"recipe"`
	Style       string   `json:"style"`
	StyleSource string   `json:"style_source"` // library 或 embedded
	Checks      []Check  `json:"checks"`
	Issues      []string `json:"issues"`
	Warnings    []string `json:"warnings"`
	Passed      []string `json:"passed"`
	InStyle     bool     `json:"in_style"`
}

// SuggestRequest 以現有原料尋找可釀造食譜
type SuggestRequest struct {
	Grains []string `json:"grains"`
	Hops   []string `json:"hops"`
	Yeasts []string `json:"yeasts"`
}

// Available 轉換成依種類分組的名稱
func (r SuggestRequest) Available() feasibility.Available {
	return feasibility.Available{
		record.KindGrain: r.Grains,
		record.KindHop:   r.Hops,
		record.KindYeast: r.Yeasts,
	}
}

// Empty 是否沒有任何原料
func (r SuggestRequest) Empty() bool {
	return len(r.Grains)+len(r.Hops)+len(r.Yeasts) == 0
}

// RecipeSuggestion 可行的食譜，附上缺少酒花的替代品
type RecipeSuggestion struct {
	feasibility.Suggestion
	Substitutes map[string][]string `json:"substitutes,omitempty"`
}

// SuggestResponse 建議結果
type SuggestResponse struct {
	Generation  uint64             `json:"generation"`
	Evaluated   int                `json:"evaluated"`
	Suggestions []RecipeSuggestion `json:"suggestions"`
}

// StockMatch 庫存產品與資料庫原料的對應
type StockMatch struct {
	Product    string      `json:"product"`
	Kind       record.Kind `json:"kind"`
	MatchedTo  string      `json:"matched_to"`
	Confidence float64     `json:"confidence"`
}

// StockSuggestResponse 依庫存產生的建議
type StockSuggestResponse struct {
	Matched   []StockMatch `json:"matched"`
	Unmatched []string     `json:"unmatched"`
	SuggestResponse
}

// MashSchedule 糖化設定，附上換算成攝氏與公升的步驟表
type MashSchedule struct {
	*record.Mash
	TotalMinutes float64        `json:"total_minutes"`
	Schedule     []ScheduleStep `json:"schedule"`
}

// ScheduleStep 步驟表中的一步
type ScheduleStep struct {
	Name      string              `json:"name"`
	Type      record.MashStepType `json:"type"`
	TempC     float64             `json:"temp_c"`
	Minutes   float64             `json:"minutes"`
	RiseMin   float64             `json:"rise_minutes,omitempty"`
	InfusionL float64             `json:"infusion_l,omitempty"`
}

// WaterProfile 水質與硫酸根/氯離子比例判斷的風味傾向
type WaterProfile struct {
	*record.Water
	Ratio     float64 `json:"so4_cl_ratio"`
	Character string  `json:"character"`
}
