package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"beersmith-bridge/internal/core/bsmx"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"
	"beersmith-bridge/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadStore(t *testing.T) (*Store, *Snapshot) {
	t.Helper()
	dataDir, recipeDir, _ := testutil.DataDir(t)
	s := NewStore(dataDir, recipeDir)
	return s, s.Load()
}

func TestLoadCounts(t *testing.T) {
	_, snap := loadStore(t)

	want := map[record.Kind]int{
		record.KindHop:       5,
		record.KindGrain:     5,
		record.KindYeast:     3,
		record.KindMisc:      2,
		record.KindWater:     3,
		record.KindStyle:     2,
		record.KindEquipment: 3,
		record.KindMash:      2,
		record.KindRecipe:    5,
	}
	for kind, n := range want {
		assert.Len(t, snap.List(kind), n, kind)
	}
	assert.Equal(t, uint64(1), snap.Generation)
}

func TestRecipeFolders(t *testing.T) {
	_, snap := loadStore(t)

	got := map[string]string{}
	for _, r := range snap.Recipes() {
		got[r.Name] = r.Folder
	}
	assert.Equal(t, map[string]string{
		"West Coast IPA": "/IPAs/",
		"Czech Pils":     "/",
		"Mystery Ale":    "/Experiments/",
		"Cloud Pale Ale": "/Cloud/",
		"Saaz Session":   "/Files/",
	}, got)

	// 依資料夾排序，根目錄最前
	assert.Equal(t, "/", snap.Recipes()[0].Folder)
	assert.Len(t, snap.Files(record.KindRecipe), 3)
}

func TestGetByIDAndName(t *testing.T) {
	_, snap := loadStore(t)

	r, ok := snap.Get(record.KindHop, "101")
	require.True(t, ok)
	assert.Equal(t, "Cascade", r.Meta().Name)

	r, ok = snap.Get(record.KindHop, "  cAsCaDe ")
	require.True(t, ok)
	assert.Equal(t, "101", r.Meta().ID)

	r, ok = snap.Get(record.KindHop, "hallertauer mittelfruh")
	require.True(t, ok)
	assert.Equal(t, "Hallertauer Mittelfrüh", r.Meta().Name)

	_, ok = snap.Get(record.KindGrain, "Cascade")
	assert.False(t, ok)
}

func TestLookupSuggestions(t *testing.T) {
	_, snap := loadStore(t)

	_, suggestions, err := snap.Lookup(record.KindHop, "Casscade", match.New(0, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRecordNotFound))
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Cascade", suggestions[0].Name)
}

func TestMissingFileLeavesKindEmpty(t *testing.T) {
	dataDir, recipeDir, _ := testutil.DataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dataDir, "Yeast.bsmx")))
	require.NoError(t, os.Remove(filepath.Join(dataDir, CloudFile)))

	snap := NewStore(dataDir, recipeDir).Load()
	assert.Empty(t, snap.List(record.KindYeast))
	assert.Len(t, snap.List(record.KindHop), 5)

	warns := snap.Warnings(record.KindYeast)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "document unavailable")

	// 沒有雲端食譜不產生警告
	for _, w := range snap.Warnings(record.KindRecipe) {
		assert.NotEqual(t, CloudFile, w.Source)
	}
	assert.Len(t, snap.List(record.KindRecipe), 4)
}

func TestReloadKind(t *testing.T) {
	s, first := loadStore(t)
	path := s.Path(record.KindMisc)
	testutil.WriteFile(t, filepath.Dir(path), filepath.Base(path),
		`<Misc><Data><Misc><_PERMID_>401</_PERMID_><F_M_NAME>Irish Moss</F_M_NAME></Misc></Data></Misc>`)

	second := s.ReloadKind(record.KindMisc)
	assert.Equal(t, first.Generation+1, second.Generation)
	assert.Len(t, second.List(record.KindMisc), 1)
	assert.Len(t, first.List(record.KindMisc), 2, "old snapshot must stay intact")

	// 其他種類沿用原資料
	assert.Equal(t, first.List(record.KindHop), second.List(record.KindHop))
	assert.Same(t, second, s.Snapshot())
}

func TestStatus(t *testing.T) {
	_, snap := loadStore(t)
	status := snap.Status()
	require.Len(t, status, len(record.Kinds))
	assert.Equal(t, record.KindHop, status[0].Kind)
	assert.Equal(t, 5, status[0].Count)
	assert.False(t, status[0].LoadedAt.IsZero())
	// 空名稱酒花與無法轉換的數值都會留下警告
	assert.Positive(t, snap.WarningCount())
}

func TestSearch(t *testing.T) {
	_, snap := loadStore(t)
	names := func(recs []record.Record) []string {
		var out []string
		for _, r := range recs {
			out = append(out, r.Meta().Name)
		}
		return out
	}
	assert.ElementsMatch(t, []string{"Pale Malt (2 Row) US", "Cloud Pale Ale"},
		names(snap.Search("pale", record.KindGrain, record.KindRecipe)))
	assert.Len(t, snap.Search("", record.KindStyle), 2)
}

func TestResolveRecipe(t *testing.T) {
	_, snap := loadStore(t)

	var ipa, mystery *record.Recipe
	for _, r := range snap.Recipes() {
		switch r.Name {
		case "West Coast IPA":
			ipa = r
		case "Mystery Ale":
			mystery = r
		}
	}
	require.NotNil(t, ipa)
	require.NotNil(t, mystery)

	res := ResolveRecipe(snap, ipa)
	assert.Empty(t, res.Dangling)
	require.True(t, res.Style.OK)
	assert.Equal(t, "21", res.Style.Record.Number)
	require.True(t, res.Equipment.OK)
	require.True(t, res.Mash.OK)
	assert.Len(t, res.Mash.Record.Steps, 2, "library profile, not the embedded copy")
	require.Len(t, res.Hops, 3)
	assert.Equal(t, 5.5, res.Hops[1].Record.Alpha)

	res = ResolveRecipe(snap, mystery)
	assert.Len(t, res.Dangling, 3)
	assert.False(t, res.Style.OK)
	for _, ref := range res.Dangling {
		assert.False(t, strings.HasPrefix(ref.Name, "Irish"))
	}
}

func TestResolveWrongKind(t *testing.T) {
	_, snap := loadStore(t)
	res := Resolve[record.Hop](snap, record.Ref{Kind: record.KindHop, Name: "Nope", ID: "201"})
	assert.False(t, res.OK)
	assert.Nil(t, res.Record)

	res = Resolve[record.Hop](snap, record.Ref{Kind: record.KindHop, Name: "Renamed", ID: "102"})
	require.True(t, res.OK)
	assert.Equal(t, "Centennial", res.Record.Name)
}

func TestReloadKindAfterSlowLoadWins(t *testing.T) {
	s, _ := loadStore(t)
	hops := s.Path(record.KindHop)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	s.loadDoc = func(path string, opts bsmx.Options) (*bsmx.Document, error) {
		doc, err := bsmx.Load(path, opts)
		if path == hops {
			once.Do(func() {
				close(started)
				<-release
			})
		}
		return doc, err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Load()
	}()
	<-started

	// 完整載入已讀到舊內容時，另一個寫入完成並要求重新載入
	raw, err := os.ReadFile(hops)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(hops, []byte(strings.Replace(string(raw), "1.2500000", "1.9000000", 1)), 0o644))
	go func() {
		defer wg.Done()
		s.ReloadKind(record.KindHop)
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	r, ok := s.Snapshot().Get(record.KindHop, "Cascade")
	require.True(t, ok)
	assert.Equal(t, 1.9, r.(*record.Hop).Price)
	assert.Equal(t, uint64(3), s.Snapshot().Generation)
}
