package catalog

import (
	"sort"
	"strings"
	"time"

	"beersmith-bridge/internal/core/bsmx"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"
)

// Snapshot 某一時間點的完整資料，建立後不再修改，可安全地並行讀取
type Snapshot struct {
	Generation uint64
	LoadedAt   time.Time

	kinds map[record.Kind]*kindData
}

// kindData 單一種類的資料與索引
type kindData struct {
	records  []record.Record
	byName   map[string]record.Record
	byID     map[string]record.Record
	pool     []*match.Candidate
	warnings []bsmx.Warning
	files    []string
	loadedAt time.Time
}

func newKindData(recs []record.Record, warns []bsmx.Warning, files []string) *kindData {
	kd := &kindData{
		records:  recs,
		byName:   make(map[string]record.Record, len(recs)),
		byID:     make(map[string]record.Record, len(recs)),
		pool:     match.CandidatesFrom(recs),
		warnings: warns,
		files:    files,
		loadedAt: time.Now(),
	}
	for _, r := range recs {
		m := r.Meta()
		key := match.Fold(m.Name)
		// 名稱重複時保留第一筆
		if _, ok := kd.byName[key]; !ok {
			kd.byName[key] = r
		}
		if m.ID != "" {
			if _, ok := kd.byID[m.ID]; !ok {
				kd.byID[m.ID] = r
			}
		}
	}
	return kd
}

func (s *Snapshot) data(kind record.Kind) *kindData {
	if s == nil {
		return nil
	}
	return s.kinds[kind]
}

// List 某種類的所有資料，依來源順序
func (s *Snapshot) List(kind record.Kind) []record.Record {
	kd := s.data(kind)
	if kd == nil {
		return nil
	}
	return kd.records
}

// Get 以識別碼或名稱（不分大小寫）取得資料
func (s *Snapshot) Get(kind record.Kind, key string) (record.Record, bool) {
	kd := s.data(kind)
	if kd == nil {
		return nil, false
	}
	key = strings.TrimSpace(key)
	if r, ok := kd.byID[key]; ok {
		return r, true
	}
	r, ok := kd.byName[match.Fold(key)]
	return r, ok
}

// Lookup 取得資料；找不到時回傳 ErrRecordNotFound 與相近的候選
func (s *Snapshot) Lookup(kind record.Kind, key string, m *match.Matcher) (record.Record, []match.Result, error) {
	if r, ok := s.Get(kind, key); ok {
		return r, nil, nil
	}
	var suggestions []match.Result
	if m != nil {
		suggestions = m.MatchThreshold(key, s.Pool(kind), kind, 0.4)
	}
	return nil, suggestions, common.Wrapf(common.ErrRecordNotFound, "%s %q", kind, key)
}

// Search 名稱包含查詢字串（不分大小寫與變音符號）的資料
func (s *Snapshot) Search(q string, kinds ...record.Kind) []record.Record {
	if len(kinds) == 0 {
		kinds = record.Kinds
	}
	needle := match.Fold(q)
	var out []record.Record
	for _, k := range kinds {
		for _, r := range s.List(k) {
			if needle == "" || strings.Contains(match.Fold(r.Meta().Name), needle) {
				out = append(out, r)
			}
		}
	}
	return out
}

// Pool 比對用的候選池
func (s *Snapshot) Pool(kind record.Kind) []*match.Candidate {
	kd := s.data(kind)
	if kd == nil {
		return nil
	}
	return kd.pool
}

// Pools 多個種類合併的候選池
func (s *Snapshot) Pools(kinds ...record.Kind) []*match.Candidate {
	if len(kinds) == 0 {
		kinds = record.IngredientKinds
	}
	var out []*match.Candidate
	for _, k := range kinds {
		out = append(out, s.Pool(k)...)
	}
	return out
}

// Recipes 所有食譜，依資料夾與名稱排序
func (s *Snapshot) Recipes() []*record.Recipe {
	recs := s.List(record.KindRecipe)
	out := make([]*record.Recipe, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.(*record.Recipe))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Folder != out[j].Folder {
			return out[i].Folder < out[j].Folder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Warnings 某種類的載入警告
func (s *Snapshot) Warnings(kind record.Kind) []bsmx.Warning {
	kd := s.data(kind)
	if kd == nil {
		return nil
	}
	return kd.warnings
}

// Files 某種類的來源檔案路徑
func (s *Snapshot) Files(kind record.Kind) []string {
	kd := s.data(kind)
	if kd == nil {
		return nil
	}
	return kd.files
}

// KindStatus 單一種類的載入狀態
type KindStatus struct {
	Kind     record.Kind `json:"kind"`
	Count    int         `json:"count"`
	Warnings int         `json:"warnings"`
	LoadedAt time.Time   `json:"loaded_at"`
}

// Status 所有種類的載入狀態
func (s *Snapshot) Status() []KindStatus {
	out := make([]KindStatus, 0, len(record.Kinds))
	for _, k := range record.Kinds {
		st := KindStatus{Kind: k}
		if kd := s.data(k); kd != nil {
			st.Count = len(kd.records)
			st.Warnings = len(kd.warnings)
			st.LoadedAt = kd.loadedAt
		}
		out = append(out, st)
	}
	return out
}

// WarningCount 所有種類的警告總數
func (s *Snapshot) WarningCount() int {
	n := 0
	for _, k := range record.Kinds {
		n += len(s.Warnings(k))
	}
	return n
}
