// Package catalog 載入 BeerSmith 資料檔並提供唯讀查詢
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"beersmith-bridge/internal/core/bsmx"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// CloudFile 雲端食譜檔
const CloudFile = "Cloud.bsmx"

// Store 持有目前的資料快照；讀取取得快照指標，重新載入時整個替換
type Store struct {
	dataDir   string
	recipeDir string
	loadDoc   func(path string, opts bsmx.Options) (*bsmx.Document, error)

	// loadMu 讓讀檔到替換快照成為一步，寫入後的 ReloadKind 不會被較早開始的 Load 蓋掉
	loadMu     sync.Mutex
	mu         sync.RWMutex
	snap       *Snapshot
	generation uint64
}

// NewStore 建立資料存放區，需呼叫 Load 後才有資料
func NewStore(dataDir, recipeDir string) *Store {
	return &Store{
		dataDir:   dataDir,
		recipeDir: recipeDir,
		loadDoc:   bsmx.Load,
		snap:      &Snapshot{kinds: map[record.Kind]*kindData{}},
	}
}

// DataDir 資料目錄
func (s *Store) DataDir() string {
	return s.dataDir
}

// Snapshot 目前的快照
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Path 種類主要資料檔的完整路徑
func (s *Store) Path(kind record.Kind) string {
	return filepath.Join(s.dataDir, record.Traits(kind).File)
}

// Load 載入所有種類；個別檔案失敗只影響該種類
func (s *Store) Load() *Snapshot {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	kinds := make(map[record.Kind]*kindData, len(record.Kinds))
	for _, k := range record.Kinds {
		kinds[k] = s.loadKind(k)
	}

	s.mu.Lock()
	s.generation++
	snap := &Snapshot{Generation: s.generation, LoadedAt: time.Now(), kinds: kinds}
	s.snap = snap
	s.mu.Unlock()

	fields := []zap.Field{
		zap.Uint64("generation", snap.Generation),
		zap.Int("warnings", snap.WarningCount()),
		zap.Duration("duration", time.Since(start)),
	}
	for _, st := range snap.Status() {
		fields = append(fields, zap.Int(string(st.Kind), st.Count))
	}
	common.LogInfo("資料載入完成", fields...)
	return snap
}

// ReloadKind 只重新載入一個種類，其餘種類沿用目前快照
func (s *Store) ReloadKind(kind record.Kind) *Snapshot {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	kd := s.loadKind(kind)

	s.mu.Lock()
	kinds := make(map[record.Kind]*kindData, len(s.snap.kinds))
	for k, v := range s.snap.kinds {
		kinds[k] = v
	}
	kinds[kind] = kd
	s.generation++
	snap := &Snapshot{Generation: s.generation, LoadedAt: time.Now(), kinds: kinds}
	s.snap = snap
	s.mu.Unlock()

	common.LogInfo("重新載入資料",
		zap.String("kind", string(kind)),
		zap.Int("count", len(kd.records)),
		zap.Int("warnings", len(kd.warnings)),
		zap.Uint64("generation", snap.Generation),
	)
	return snap
}

func (s *Store) loadKind(kind record.Kind) *kindData {
	if kind == record.KindRecipe {
		return s.loadRecipes()
	}

	trait := record.Traits(kind)
	path := s.Path(kind)
	doc, err := s.loadDocument(path, trait)
	if err != nil {
		return newKindData(nil, []bsmx.Warning{unavailable(path, kind, err)}, []string{path})
	}
	recs, warns := record.Extract(kind, doc)
	return newKindData(recs, append(doc.Warnings, warns...), []string{path})
}

// loadRecipes 本機食譜、雲端食譜與食譜資料夾中的單獨檔案
func (s *Store) loadRecipes() *kindData {
	trait := record.Traits(record.KindRecipe)
	type source struct {
		path   string
		folder string
		must   bool
	}
	sources := []source{
		{filepath.Join(s.dataDir, trait.File), record.FolderLocal, true},
		{filepath.Join(s.dataDir, CloudFile), record.FolderCloud, false},
	}
	for _, p := range s.recipeFiles() {
		sources = append(sources, source{p, record.FolderFiles, true})
	}

	var (
		recs  []record.Record
		warns []bsmx.Warning
		files []string
	)
	for _, src := range sources {
		doc, err := s.loadDocument(src.path, trait)
		if err != nil {
			// 沒有雲端食譜檔是正常情況
			if src.must || !errors.Is(err, os.ErrNotExist) {
				warns = append(warns, unavailable(src.path, record.KindRecipe, err))
			}
			continue
		}
		files = append(files, src.path)
		recipes, w := record.ExtractRecipes(doc, src.folder)
		warns = append(warns, doc.Warnings...)
		warns = append(warns, w...)
		for _, r := range recipes {
			recs = append(recs, r)
		}
	}
	return newKindData(recs, warns, files)
}

// recipeFiles 食譜資料夾中的 .bsmx 檔，依檔名排序
func (s *Store) recipeFiles() []string {
	if s.recipeDir == "" {
		return nil
	}
	entries, err := os.ReadDir(s.recipeDir)
	if err != nil {
		if !os.IsNotExist(err) {
			common.LogWarn("無法讀取食譜資料夾", zap.String("dir", s.recipeDir), zap.Error(err))
		}
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".bsmx") {
			continue
		}
		out = append(out, filepath.Join(s.recipeDir, e.Name()))
	}
	sort.Strings(out)
	return out
}

// loadDocument 讀取單一檔案
func (s *Store) loadDocument(path string, trait record.Trait) (*bsmx.Document, error) {
	opts := bsmx.Options{}
	if trait.MultiRoot {
		opts = bsmx.Options{MultiRootTag: trait.ItemTag, NameField: trait.NameField}
	}
	return s.loadDoc(path, opts)
}

// unavailable 檔案無法讀取時的警告，該種類維持空白
func unavailable(path string, kind record.Kind, err error) bsmx.Warning {
	common.LogWarn("資料檔無法讀取", zap.String("file", path), zap.Error(err))
	return bsmx.Warning{
		Source:  filepath.Base(path),
		Message: fmt.Sprintf("document unavailable, %s left empty: %v", kind, err),
	}
}
