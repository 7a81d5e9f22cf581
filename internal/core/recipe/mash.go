package recipe

import (
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/core/units"
	"beersmith-bridge/internal/pkg/common"
)

// MashProfiles 所有糖化設定，順序與資料檔相同
func (s *IngredientService) MashProfiles() []*MashSchedule {
	recs := s.snapshot().List(record.KindMash)
	out := make([]*MashSchedule, 0, len(recs))
	for _, r := range recs {
		out = append(out, scheduleOf(r.(*record.Mash)))
	}
	return out
}

// MashProfile 單一糖化設定；找不到時附上相近名稱
func (s *IngredientService) MashProfile(key string) (*MashSchedule, []match.Result, error) {
	r, suggestions, err := s.Get(record.KindMash, key)
	if err != nil {
		return nil, suggestions, err
	}
	return scheduleOf(r.(*record.Mash)), nil, nil
}

func scheduleOf(m *record.Mash) *MashSchedule {
	out := &MashSchedule{Mash: m, TotalMinutes: m.TotalTime(), Schedule: make([]ScheduleStep, 0, len(m.Steps))}
	for _, st := range m.Steps {
		out.Schedule = append(out.Schedule, ScheduleStep{
			Name:      st.Name,
			Type:      st.Type,
			TempC:     fahrenheitToCelsius(st.Temp),
			Minutes:   st.Time,
			RiseMin:   st.RiseTime,
			InfusionL: common.Round(units.FluidOuncesToLiters(st.InfusionFloz), 2),
		})
	}
	return out
}
