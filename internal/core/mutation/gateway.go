// Package mutation 將經過驗證的欄位修改寫回 BeerSmith 資料檔
package mutation

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/pricing"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/core/units"
	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// verifyTolerance 數值以七位小數寫入，讀回時允許的誤差
const verifyTolerance = 1e-6

// FieldChange 單一欄位的新值；價格與庫存可附帶單位與貨幣
type FieldChange struct {
	Value    interface{} `json:"value"`
	Unit     string      `json:"unit,omitempty"`
	Currency string      `json:"currency,omitempty"`
}

// ChangeSet 欄位名稱對應新值
type ChangeSet map[string]FieldChange

// Update 一次寫入命令
type Update struct {
	Kind    record.Kind `json:"kind"`
	Name    string      `json:"name"`
	Changes ChangeSet   `json:"changes"`
	Reason  string      `json:"reason,omitempty"`
}

// Result 寫入結果
type Result struct {
	Kind        record.Kind                   `json:"kind"`
	Name        string                        `json:"name"`
	Changed     []string                      `json:"changed"`
	Values      map[string]interface{}        `json:"values"`
	Conversions map[string]*pricing.Breakdown `json:"conversions,omitempty"`
	Backup      *Backup                       `json:"backup"`
	Generation  uint64                        `json:"generation"`
}

// planned 驗證後的單一欄位
type planned struct {
	spec  record.FieldSpec
	value interface{} // float64 或 string
	text  string      // 寫入檔案的文字
	conv  *pricing.Breakdown
}

// Gateway 寫入閘道：驗證、備份、寫入、重新載入並核對
type Gateway struct {
	store  *catalog.Store
	backup Backuper
	prefs  common.Preferences
	write  func(path string, data []byte) error
}

// NewGateway 建立寫入閘道；prefs 提供存檔貨幣與匯率
func NewGateway(store *catalog.Store, backup Backuper, prefs common.Preferences) *Gateway {
	return &Gateway{store: store, backup: backup, prefs: prefs, write: writeAtomic}
}

// UpdateFields 修改一筆資料的欄位
func (g *Gateway) UpdateFields(kind record.Kind, name string, changes ChangeSet) (*Result, error) {
	return g.Apply(Update{Kind: kind, Name: name, Changes: changes})
}

// Apply 執行寫入命令
//
// 所有欄位都通過驗證後才會備份；備份失敗不寫入；寫入後重新載入該種類並逐欄核對。
func (g *Gateway) Apply(u Update) (*Result, error) {
	trait := record.Traits(u.Kind)
	if trait.Kind == "" {
		return nil, common.Wrapf(common.ErrUnknownKind, "kind %q", u.Kind)
	}
	if len(u.Changes) == 0 {
		return nil, common.Wrapf(common.ErrInvalidRequest, "no fields to change")
	}

	snap := g.store.Snapshot()
	rec, ok := snap.Get(u.Kind, u.Name)
	if !ok {
		return nil, common.Wrapf(common.ErrRecordNotFound, "%s %q", u.Kind, u.Name)
	}
	meta := rec.Meta()

	plan, err := g.plan(trait, u.Changes)
	if err != nil {
		return nil, err
	}

	path, err := sourcePath(snap, u.Kind, meta.Source)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.Wrapf(common.ErrDocumentMissing, "read %s: %v", filepath.Base(path), err)
	}

	edits := make([]FieldEdit, len(plan))
	for i, p := range plan {
		edits[i] = FieldEdit{Tag: p.spec.Tag, Text: p.text}
	}
	updated, err := applyEdits(raw, itemTags(trait, meta.Source), trait.NameField, meta.Name, edits)
	if err != nil {
		// 記錄存在但找不到完整區塊（如截斷），無法安全地只改目標欄位
		return nil, common.Wrapf(common.ErrWriteFailed, "%s: %v", filepath.Base(path), err)
	}

	reason := u.Reason
	if reason == "" {
		reason = fmt.Sprintf("update %s %q: %s", u.Kind, meta.Name, strings.Join(fieldNames(plan), ", "))
	}
	bk, err := g.backup.Backup([]string{path}, reason)
	if err != nil {
		common.LogError("備份失敗，取消寫入", zap.String("file", path), zap.Error(err))
		return nil, common.Wrapf(common.ErrBackupFailed, "%v", err)
	}

	if err := g.write(path, updated); err != nil {
		common.LogError("寫入資料檔失敗", zap.String("file", path), zap.Error(err))
		return nil, common.Wrapf(common.ErrWriteFailed, "%s: %v", filepath.Base(path), err)
	}

	after := g.store.ReloadKind(u.Kind)
	res := &Result{
		Kind:       u.Kind,
		Name:       meta.Name,
		Values:     make(map[string]interface{}, len(plan)),
		Backup:     bk,
		Generation: after.Generation,
	}
	for _, p := range plan {
		res.Changed = append(res.Changed, p.spec.Name)
		res.Values[p.spec.Name] = p.value
		if p.conv != nil {
			if res.Conversions == nil {
				res.Conversions = map[string]*pricing.Breakdown{}
			}
			res.Conversions[p.spec.Name] = p.conv
		}
	}

	if err := verify(after, u.Kind, meta, plan); err != nil {
		common.LogError("寫入後驗證不一致",
			zap.String("kind", string(u.Kind)),
			zap.String("name", meta.Name),
			zap.String("backup", bk.Dir),
			zap.Error(err),
		)
		return res, err
	}

	common.LogInfo("欄位更新完成",
		zap.String("kind", string(u.Kind)),
		zap.String("name", meta.Name),
		zap.Strings("fields", res.Changed),
		zap.Uint64("generation", res.Generation),
	)
	return res, nil
}

// plan 驗證整組修改，任何一個欄位不合格就整組拒絕
func (g *Gateway) plan(trait record.Trait, changes ChangeSet) ([]planned, error) {
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)

	var disallowed []string
	for _, name := range names {
		if _, ok := trait.Field(name); !ok {
			disallowed = append(disallowed, name)
		}
	}
	if len(disallowed) > 0 {
		return nil, common.Wrapf(common.ErrFieldNotAllowed, "%s: %s (allowed: %s)",
			trait.Kind, strings.Join(disallowed, ", "), strings.Join(trait.FieldNames(), ", "))
	}

	out := make([]planned, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		spec, _ := trait.Field(name)
		if seen[spec.Name] {
			return nil, common.Wrapf(common.ErrInvalidValue, "field %s given twice", spec.Name)
		}
		seen[spec.Name] = true

		p, err := g.validate(trait, spec, changes[name])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (g *Gateway) validate(trait record.Trait, spec record.FieldSpec, ch FieldChange) (planned, error) {
	p := planned{spec: spec}
	if !spec.Numeric() {
		s, ok := ch.Value.(string)
		if !ok {
			return p, common.Wrapf(common.ErrInvalidValue, "%s must be text", spec.Name)
		}
		p.text = strings.TrimSpace(s)
		p.value = readBack(p.text)
		return p, nil
	}

	v, ok := numberOf(ch.Value)
	if !ok {
		return p, common.Wrapf(common.ErrInvalidValue, "%s must be numeric, got %v", spec.Name, ch.Value)
	}

	switch spec.Type {
	case record.FieldPrice:
		if v < 0 {
			return p, common.Wrapf(common.ErrInvalidValue, "%s %v is negative", spec.Name, v)
		}
		if ch.Unit != "" || ch.Currency != "" {
			// 未指定的部分視為存檔貨幣或標準單位
			prefs := g.prefs
			prefs.UserCurrency = prefs.HostCurrency
			prefs.UserUnit = string(trait.PriceUnit)
			b, err := pricing.Normalize(pricing.Request{Kind: trait.Kind, Amount: v, Currency: ch.Currency, Unit: ch.Unit}, prefs)
			if err != nil {
				return p, err
			}
			v, p.conv = b.Value, b
		}
	case record.FieldInventory:
		if v < 0 {
			return p, common.Wrapf(common.ErrInvalidValue, "%s %v is negative", spec.Name, v)
		}
		if ch.Unit != "" {
			u, err := units.Parse(ch.Unit)
			if err != nil {
				return p, err
			}
			converted, err := pricing.QuantityToCanonical(v, u, trait.Kind)
			if err != nil {
				return p, err
			}
			v = converted
		}
	}
	if ch.Currency != "" && spec.Type != record.FieldPrice {
		return p, common.Wrapf(common.ErrInvalidValue, "%s does not take a currency", spec.Name)
	}

	p.value = v
	p.text = record.FormatNumber(v)
	return p, nil
}

// verify 以重新載入的資料逐欄核對
func verify(snap *catalog.Snapshot, kind record.Kind, before *record.Base, plan []planned) error {
	rec := findReloaded(snap, kind, before)
	if rec == nil {
		return common.Wrapf(common.ErrVerifyMismatch, "%s %q missing after reload", kind, before.Name)
	}

	var diffs []string
	for _, p := range plan {
		got, ok := record.FieldValue(rec, p.spec.Name)
		if !ok {
			diffs = append(diffs, p.spec.Name+": unreadable")
			continue
		}
		switch want := p.value.(type) {
		case float64:
			g, _ := got.(float64)
			if math.Abs(g-want) > verifyTolerance {
				diffs = append(diffs, fmt.Sprintf("%s: want %v, got %v", p.spec.Name, want, g))
			}
		case string:
			g, _ := got.(string)
			if strings.TrimSpace(g) != want {
				diffs = append(diffs, fmt.Sprintf("%s: want %q, got %q", p.spec.Name, want, g))
			}
		}
	}
	if len(diffs) > 0 {
		return common.Wrapf(common.ErrVerifyMismatch, "%s %q: %s", kind, before.Name, strings.Join(diffs, "; "))
	}
	return nil
}

// findReloaded 依來源檔與名稱找回同一筆資料
func findReloaded(snap *catalog.Snapshot, kind record.Kind, before *record.Base) record.Record {
	var byName record.Record
	for _, r := range snap.List(kind) {
		m := r.Meta()
		if !strings.EqualFold(m.Name, before.Name) {
			continue
		}
		if m.Source == before.Source && (before.ID == "" || m.ID == before.ID) {
			return r
		}
		if byName == nil {
			byName = r
		}
	}
	return byName
}

// sourcePath 資料的來源檔完整路徑
func sourcePath(snap *catalog.Snapshot, kind record.Kind, source string) (string, error) {
	for _, f := range snap.Files(kind) {
		if filepath.Base(f) == source {
			return f, nil
		}
	}
	return "", common.Wrapf(common.ErrDocumentMissing, "%s source %q", kind, source)
}

// itemTags 雲端食譜以 F_C_RECIPE 包裝
func itemTags(trait record.Trait, source string) []string {
	if trait.Kind == record.KindRecipe && strings.EqualFold(source, catalog.CloudFile) {
		return []string{"F_C_RECIPE", trait.ItemTag}
	}
	return []string{trait.ItemTag}
}

func fieldNames(plan []planned) []string {
	out := make([]string, len(plan))
	for i, p := range plan {
		out[i] = p.spec.Name
	}
	return out
}

// numberOf 接受 JSON 數值與數值字串
func numberOf(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
