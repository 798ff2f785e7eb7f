package evt

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses the hit collections of one event.
type Summary struct {
	Hits          int
	SignalHits    int
	Modules       int
	SignalModules int
	TotalCharge   float64
	SignalCharge  float64
	MeanTime      float64
	FirstTime     float64
	LastTime      float64
}

func Summarize(hits HitCollections) Summary {
	summary := Summary{
		SignalModules: len(hits.MergedModule),
	}

	modules := make(map[OMKey]struct{})
	var charges, times []float64
	for key, series := range hits.All {
		modules[key.Module()] = struct{}{}
		for _, hit := range series {
			charges = append(charges, hit.Charge)
			times = append(times, hit.Time)
		}
	}
	summary.Hits = len(charges)
	summary.Modules = len(modules)
	if len(charges) == 0 {
		return summary
	}
	summary.TotalCharge = floats.Sum(charges)
	summary.MeanTime = stat.Mean(times, nil)
	summary.FirstTime = floats.Min(times)
	summary.LastTime = floats.Max(times)

	var signalCharges []float64
	for _, series := range hits.Signal {
		for _, hit := range series {
			signalCharges = append(signalCharges, hit.Charge)
		}
	}
	summary.SignalHits = len(signalCharges)
	summary.SignalCharge = floats.Sum(signalCharges)
	return summary
}
