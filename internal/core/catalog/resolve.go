package catalog

import (
	"beersmith-bridge/internal/core/record"
)

// Resolve 以目前快照解析弱參照，名稱優先，其次識別碼；找不到或型別不符時 OK 為 false，不視為錯誤
func Resolve[T any, PT interface {
	*T
	record.Record
}](s *Snapshot, ref record.Ref) record.Resolved[T] {
	out := record.Resolved[T]{Ref: ref}
	r, ok := s.Get(ref.Kind, ref.Name)
	if !ok && ref.ID != "" {
		r, ok = s.Get(ref.Kind, ref.ID)
	}
	if !ok {
		return out
	}
	if typed, ok := r.(PT); ok {
		out.Record = (*T)(typed)
		out.OK = true
	}
	return out
}

// ResolvedRecipe 食譜中所有原料行的解析結果
type ResolvedRecipe struct {
	Recipe    *record.Recipe                    `json:"recipe"`
	Style     record.Resolved[record.Style]     `json:"style"`
	Equipment record.Resolved[record.Equipment] `json:"equipment"`
	Mash      record.Resolved[record.Mash]      `json:"mash"`
	Grains    []record.Resolved[record.Grain]   `json:"grains"`
	Hops      []record.Resolved[record.Hop]     `json:"hops"`
	Yeasts    []record.Resolved[record.Yeast]   `json:"yeasts"`
	Miscs     []record.Resolved[record.Misc]    `json:"miscs"`
	Waters    []record.Resolved[record.Water]   `json:"waters"`
	Dangling  []record.Ref                      `json:"dangling"`
}

// ResolveRecipe 解析食譜的所有參照；資料庫中已不存在的原料列入 Dangling
func ResolveRecipe(s *Snapshot, r *record.Recipe) ResolvedRecipe {
	out := ResolvedRecipe{Recipe: r, Dangling: []record.Ref{}}
	note := func(ok bool, ref record.Ref) {
		if !ok {
			out.Dangling = append(out.Dangling, ref)
		}
	}

	if r.Style.Name != "" {
		out.Style = Resolve[record.Style](s, r.Style)
	} else {
		out.Style = record.Resolved[record.Style]{Ref: r.Style}
	}
	if r.Equipment.Name != "" {
		out.Equipment = Resolve[record.Equipment](s, r.Equipment)
	} else {
		out.Equipment = record.Resolved[record.Equipment]{Ref: r.Equipment}
	}
	if r.Mash.Name != "" {
		out.Mash = Resolve[record.Mash](s, r.Mash)
	} else {
		out.Mash = record.Resolved[record.Mash]{Ref: r.Mash}
	}

	for _, l := range r.Grains {
		res := Resolve[record.Grain](s, l.Ref)
		note(res.OK, l.Ref)
		out.Grains = append(out.Grains, res)
	}
	for _, l := range r.Hops {
		res := Resolve[record.Hop](s, l.Ref)
		note(res.OK, l.Ref)
		out.Hops = append(out.Hops, res)
	}
	for _, l := range r.Yeasts {
		res := Resolve[record.Yeast](s, l.Ref)
		note(res.OK, l.Ref)
		out.Yeasts = append(out.Yeasts, res)
	}
	for _, l := range r.Miscs {
		res := Resolve[record.Misc](s, l.Ref)
		note(res.OK, l.Ref)
		out.Miscs = append(out.Miscs, res)
	}
	for _, l := range r.Waters {
		res := Resolve[record.Water](s, l.Ref)
		note(res.OK, l.Ref)
		out.Waters = append(out.Waters, res)
	}
	return out
}
